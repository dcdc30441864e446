package mocks

import (
	"context"

	"cityquest/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) GetActivePoint(ctx context.Context, pointID int64) (*model.Point, error) {
	args := m.Called(ctx, pointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Point), args.Error(1)
}

func (m *MockPointRepository) ListActivePoints(ctx context.Context) ([]*model.Point, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Point), args.Error(1)
}

type MockProgressionRepository struct {
	mock.Mock
}

func (m *MockProgressionRepository) CreateCheckin(ctx context.Context, checkin *model.Checkin) (*model.Checkin, int, error) {
	args := m.Called(ctx, checkin)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*model.Checkin), args.Int(1), args.Error(2)
}

func (m *MockProgressionRepository) AdvanceStreak(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressionRepository) UnlockAchievement(ctx context.Context, userID int64, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressionRepository) ListActiveMissions(ctx context.Context) ([]*model.Mission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Mission), args.Error(1)
}

func (m *MockProgressionRepository) UpsertMissionProgress(ctx context.Context, userID int64, updates []model.MissionProgressUpdate) error {
	args := m.Called(ctx, userID, updates)
	return args.Error(0)
}

type MockGamificationRepository struct {
	mock.Mock
}

func (m *MockGamificationRepository) ListMissionProgress(ctx context.Context, userID int64) ([]*model.MissionProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MissionProgress), args.Error(1)
}

func (m *MockGamificationRepository) ListUnlockedAchievements(ctx context.Context, userID int64) ([]*model.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserAchievement), args.Error(1)
}

func (m *MockGamificationRepository) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStats), args.Error(1)
}

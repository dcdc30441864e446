package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cityquest/internal/model"
	"cityquest/internal/repository"
	"cityquest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPoint = &model.Point{
	ID:           1,
	Name:         "TV Tower",
	Latitude:     52.5200,
	Longitude:    13.4050,
	RadiusMeters: 100,
	IsActive:     true,
}

// ~50m north of testPoint
const (
	nearLat = 52.52045
	nearLon = 13.4050
	// ~150m north
	farLat = 52.52135
	farLon = 13.4050
)

var testMissions = []*model.Mission{
	{Code: "EXPLORE_10", TargetType: model.TargetTotalCheckins, TargetValue: 10, IsActive: true},
	{Code: "WEEK_STREAK", TargetType: model.TargetStreakDays, TargetValue: 7, IsActive: true},
}

func newCheckinService(t *testing.T, points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository) *CheckinService {
	pointService, err := NewPointService(points, 16, time.Minute)
	require.NoError(t, err)
	return NewCheckinService(pointService, repo)
}

func returnedCheckin(userID, pointID int64) *model.Checkin {
	return &model.Checkin{
		ID:        uuid.New(),
		UserID:    userID,
		PointID:   pointID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCheckinService_SubmitCheckin_Validation(t *testing.T) {
	tests := []struct {
		name          string
		request       CheckinRequest
		mockSetup     func(points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository)
		expectedError error
	}{
		{
			name: "Non-finite latitude rejected before any lookup",
			request: CheckinRequest{
				UserID:    7,
				PointID:   1,
				Latitude:  math.NaN(),
				Longitude: nearLon,
			},
			mockSetup:     func(points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository) {},
			expectedError: ErrInvalidCoordinates,
		},
		{
			name: "Infinite longitude rejected",
			request: CheckinRequest{
				UserID:    7,
				PointID:   1,
				Latitude:  nearLat,
				Longitude: math.Inf(1),
			},
			mockSetup:     func(points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository) {},
			expectedError: ErrInvalidCoordinates,
		},
		{
			name: "Unknown or inactive point",
			request: CheckinRequest{
				UserID:    7,
				PointID:   99,
				Latitude:  nearLat,
				Longitude: nearLon,
			},
			mockSetup: func(points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository) {
				points.On("GetActivePoint", mock.Anything, int64(99)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrPointNotFound,
		},
		{
			name: "Duplicate checkin surfaces conflict and stops progression",
			request: CheckinRequest{
				UserID:    7,
				PointID:   1,
				Latitude:  nearLat,
				Longitude: nearLon,
			},
			mockSetup: func(points *mocks.MockPointRepository, repo *mocks.MockProgressionRepository) {
				points.On("GetActivePoint", mock.Anything, int64(1)).
					Return(testPoint, nil)
				repo.On("CreateCheckin", mock.Anything, mock.Anything).
					Return(nil, 0, repository.ErrDuplicateCheckin)
			},
			expectedError: ErrAlreadyCheckedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := &mocks.MockPointRepository{}
			repo := &mocks.MockProgressionRepository{}
			tt.mockSetup(points, repo)
			service := newCheckinService(t, points, repo)

			result, err := service.SubmitCheckin(context.Background(), tt.request)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectedError)
			repo.AssertNotCalled(t, "AdvanceStreak", mock.Anything, mock.Anything)
			points.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestCheckinService_SubmitCheckin_Geofence(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}
	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	service := newCheckinService(t, points, repo)

	result, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  farLat,
		Longitude: farLon,
	})

	assert.Nil(t, result)

	var geofenceErr *GeofenceError
	require.ErrorAs(t, err, &geofenceErr)
	assert.InDelta(t, 150, geofenceErr.DistanceMeters, 2)
	assert.Equal(t, float64(100), geofenceErr.RadiusMeters)

	repo.AssertNotCalled(t, "CreateCheckin", mock.Anything, mock.Anything)
}

func TestCheckinService_SubmitCheckin_FirstCheckin(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}

	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	repo.On("CreateCheckin", mock.Anything, mock.MatchedBy(func(c *model.Checkin) bool {
		return c.UserID == 7 && c.PointID == 1
	})).Return(returnedCheckin(7, 1), 1, nil)
	repo.On("AdvanceStreak", mock.Anything, int64(7)).Return(1, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), "FIRST_CHECKIN").Return(true, nil)
	repo.On("ListActiveMissions", mock.Anything).Return(testMissions, nil)
	repo.On("UpsertMissionProgress", mock.Anything, int64(7), []model.MissionProgressUpdate{
		{MissionCode: "EXPLORE_10", ProgressValue: 1, TargetValue: 10},
		{MissionCode: "WEEK_STREAK", ProgressValue: 1, TargetValue: 7},
	}).Return(nil)

	service := newCheckinService(t, points, repo)

	result, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  nearLat,
		Longitude: nearLon,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, 50, result.DistanceMeters, 1)
	assert.Equal(t, 1, result.TotalCheckins)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, []string{"FIRST_CHECKIN"}, result.NewAchievementCodes)

	repo.AssertNotCalled(t, "UnlockAchievement", mock.Anything, int64(7), "CHECKINS_5")
	repo.AssertNotCalled(t, "UnlockAchievement", mock.Anything, int64(7), "STREAK_3")
	repo.AssertExpectations(t)
}

func TestCheckinService_SubmitCheckin_StreakThresholds(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}

	// Third consecutive day: STREAK_3 fires, STREAK_7 must not.
	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	repo.On("CreateCheckin", mock.Anything, mock.Anything).Return(returnedCheckin(7, 1), 3, nil)
	repo.On("AdvanceStreak", mock.Anything, int64(7)).Return(3, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), "FIRST_CHECKIN").Return(false, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), "STREAK_3").Return(true, nil)
	repo.On("ListActiveMissions", mock.Anything).Return(testMissions, nil)
	repo.On("UpsertMissionProgress", mock.Anything, int64(7), []model.MissionProgressUpdate{
		{MissionCode: "EXPLORE_10", ProgressValue: 3, TargetValue: 10},
		{MissionCode: "WEEK_STREAK", ProgressValue: 3, TargetValue: 7},
	}).Return(nil)

	service := newCheckinService(t, points, repo)

	result, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  nearLat,
		Longitude: nearLon,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.StreakDays)
	assert.Equal(t, []string{"STREAK_3"}, result.NewAchievementCodes)

	repo.AssertNotCalled(t, "UnlockAchievement", mock.Anything, int64(7), "STREAK_7")
	repo.AssertExpectations(t)
}

func TestCheckinService_SubmitCheckin_MissionProgressClamped(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}

	// Lifetime count beyond every target: progress must be clamped to the
	// target value, never above it.
	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	repo.On("CreateCheckin", mock.Anything, mock.Anything).Return(returnedCheckin(7, 1), 25, nil)
	repo.On("AdvanceStreak", mock.Anything, int64(7)).Return(9, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), mock.Anything).Return(false, nil)
	repo.On("ListActiveMissions", mock.Anything).Return(testMissions, nil)
	repo.On("UpsertMissionProgress", mock.Anything, int64(7), []model.MissionProgressUpdate{
		{MissionCode: "EXPLORE_10", ProgressValue: 10, TargetValue: 10},
		{MissionCode: "WEEK_STREAK", ProgressValue: 7, TargetValue: 7},
	}).Return(nil)

	service := newCheckinService(t, points, repo)

	result, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  nearLat,
		Longitude: nearLon,
	})

	require.NoError(t, err)
	assert.Empty(t, result.NewAchievementCodes)
	repo.AssertExpectations(t)
}

func TestCheckinService_SubmitCheckin_ProgressionSoftFail(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}

	// A committed check-in survives downstream progression failures.
	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	repo.On("CreateCheckin", mock.Anything, mock.Anything).Return(returnedCheckin(7, 1), 2, nil)
	repo.On("AdvanceStreak", mock.Anything, int64(7)).Return(2, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), "FIRST_CHECKIN").
		Return(false, errors.New("connection reset"))
	repo.On("ListActiveMissions", mock.Anything).Return(nil, errors.New("connection reset"))

	service := newCheckinService(t, points, repo)

	result, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  nearLat,
		Longitude: nearLon,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCheckins)
	assert.Empty(t, result.NewAchievementCodes)
	repo.AssertExpectations(t)
}

func TestCheckinService_SubmitCheckin_MessageSanitized(t *testing.T) {
	points := &mocks.MockPointRepository{}
	repo := &mocks.MockProgressionRepository{}

	message := "<b>great</b> view"
	points.On("GetActivePoint", mock.Anything, int64(1)).Return(testPoint, nil)
	repo.On("CreateCheckin", mock.Anything, mock.MatchedBy(func(c *model.Checkin) bool {
		return c.Message != nil && *c.Message == "great view"
	})).Return(returnedCheckin(7, 1), 2, nil)
	repo.On("AdvanceStreak", mock.Anything, int64(7)).Return(1, nil)
	repo.On("UnlockAchievement", mock.Anything, int64(7), "FIRST_CHECKIN").Return(false, nil)
	repo.On("ListActiveMissions", mock.Anything).Return([]*model.Mission{}, nil)
	repo.On("UpsertMissionProgress", mock.Anything, int64(7), []model.MissionProgressUpdate{}).Return(nil)

	service := newCheckinService(t, points, repo)

	_, err := service.SubmitCheckin(context.Background(), CheckinRequest{
		UserID:    7,
		PointID:   1,
		Latitude:  nearLat,
		Longitude: nearLon,
		Message:   &message,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

package service

import (
	"context"
	"errors"

	"cityquest/internal/model"
	"cityquest/internal/repository"
)

type GamificationService struct {
	repo GamificationRepository
}

func NewGamificationService(repo GamificationRepository) *GamificationService {
	return &GamificationService{
		repo: repo,
	}
}

// GetOverview returns every active mission with the user's progress plus the
// achievements the user has unlocked, newest first.
func (s *GamificationService) GetOverview(ctx context.Context, userID int64) ([]*model.MissionProgress, []*model.UserAchievement, error) {
	missions, err := s.repo.ListMissionProgress(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	achievements, err := s.repo.ListUnlockedAchievements(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return missions, achievements, nil
}

func (s *GamificationService) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return stats, nil
}

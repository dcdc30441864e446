package service

import (
	"context"
	"errors"
	"math"

	"cityquest/internal/model"
	"cityquest/internal/repository"
	"cityquest/pkg/logger"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type achievementThreshold struct {
	Threshold int
	Code      string
}

// One-time badges granted when a lifetime or streak counter reaches a fixed
// threshold. Evaluated with >= so a missed unlock is retried on the next
// check-in.
var (
	checkinAchievements = []achievementThreshold{
		{Threshold: 1, Code: "FIRST_CHECKIN"},
		{Threshold: 5, Code: "CHECKINS_5"},
		{Threshold: 10, Code: "CHECKINS_10"},
	}
	streakAchievements = []achievementThreshold{
		{Threshold: 3, Code: "STREAK_3"},
		{Threshold: 7, Code: "STREAK_7"},
	}
)

type CheckinRequest struct {
	UserID    int64
	PointID   int64
	Latitude  float64
	Longitude float64
	Message   *string
	ImageURL  *string
}

type CheckinService struct {
	points    PointServiceI
	repo      ProgressionRepository
	sanitizer *bluemonday.Policy
}

func NewCheckinService(points PointServiceI, repo ProgressionRepository) *CheckinService {
	return &CheckinService{
		points:    points,
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SubmitCheckin validates a check-in attempt and, once the record is
// committed, advances streak, achievement and mission state. The validation
// steps leave no state behind on failure. The progression steps after the
// insert are each idempotent; if one fails the check-in stands, the failure is
// logged, and the next check-in (or a reconciliation pass) heals the gap.
func (s *CheckinService) SubmitCheckin(ctx context.Context, req CheckinRequest) (*model.CheckinResult, error) {
	log := logger.Logger()

	if !isFinite(req.Latitude) || !isFinite(req.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	point, err := s.points.GetActivePoint(ctx, req.PointID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPointNotFound
		}
		return nil, err
	}

	distance, within := WithinRadius(req.Latitude, req.Longitude, point.Latitude, point.Longitude, point.RadiusMeters)
	if !within {
		return nil, &GeofenceError{
			DistanceMeters: distance,
			RadiusMeters:   point.RadiusMeters,
		}
	}

	checkin, total, err := s.repo.CreateCheckin(ctx, &model.Checkin{
		UserID:   req.UserID,
		PointID:  req.PointID,
		Message:  s.sanitizeMessage(req.Message),
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateCheckin) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	streakDays, err := s.repo.AdvanceStreak(ctx, req.UserID)
	if err != nil {
		log.Error("failed to advance checkin streak",
			zap.Int64("user_id", req.UserID), zap.Error(err))
		streakDays = 0
	}

	newCodes := s.unlockAchievements(ctx, req.UserID, total, streakDays)
	s.updateMissions(ctx, req.UserID, total, streakDays)

	return &model.CheckinResult{
		Checkin:             checkin,
		DistanceMeters:      distance,
		TotalCheckins:       total,
		StreakDays:          streakDays,
		NewAchievementCodes: newCodes,
	}, nil
}

func (s *CheckinService) unlockAchievements(ctx context.Context, userID int64, totalCheckins, streakDays int) []string {
	log := logger.Logger()

	newCodes := []string{}
	unlock := func(code string) {
		unlocked, err := s.repo.UnlockAchievement(ctx, userID, code)
		if err != nil {
			log.Error("failed to unlock achievement",
				zap.Int64("user_id", userID), zap.String("code", code), zap.Error(err))
			return
		}
		if unlocked {
			newCodes = append(newCodes, code)
		}
	}

	for _, a := range checkinAchievements {
		if totalCheckins >= a.Threshold {
			unlock(a.Code)
		}
	}
	for _, a := range streakAchievements {
		if streakDays >= a.Threshold {
			unlock(a.Code)
		}
	}

	return newCodes
}

func (s *CheckinService) updateMissions(ctx context.Context, userID int64, totalCheckins, streakDays int) {
	log := logger.Logger()

	missions, err := s.repo.ListActiveMissions(ctx)
	if err != nil {
		log.Error("failed to list active missions",
			zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	updates := make([]model.MissionProgressUpdate, 0, len(missions))
	for _, m := range missions {
		var metric int
		switch m.TargetType {
		case model.TargetTotalCheckins:
			metric = totalCheckins
		case model.TargetStreakDays:
			metric = streakDays
		default:
			log.Warn("skipping mission with unknown target type",
				zap.String("mission_code", m.Code), zap.String("target_type", string(m.TargetType)))
			continue
		}

		updates = append(updates, model.MissionProgressUpdate{
			MissionCode:   m.Code,
			ProgressValue: min(metric, m.TargetValue),
			TargetValue:   m.TargetValue,
		})
	}

	if err := s.repo.UpsertMissionProgress(ctx, userID, updates); err != nil {
		log.Error("failed to upsert mission progress",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *CheckinService) sanitizeMessage(message *string) *string {
	if message == nil {
		return nil
	}
	cleaned := s.sanitizer.Sanitize(*message)
	return &cleaned
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

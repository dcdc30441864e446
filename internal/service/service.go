package service

import (
	"context"
	"errors"
	"fmt"

	"cityquest/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPointNotFound      = errors.New("point not found or not active")
	ErrInvalidCoordinates = errors.New("latitude and longitude must be finite numbers")
	ErrAlreadyCheckedIn   = errors.New("user has already checked in at this point")
)

// GeofenceError carries the computed distance and the allowed radius so the
// API layer can tell the user how far off they were.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("too far away: %.0fm, allowed radius %.0fm", e.DistanceMeters, e.RadiusMeters)
}

type Service struct {
	*PointService
	*CheckinService
	*GamificationService
}

func NewService(pointService *PointService, checkinService *CheckinService, gamificationService *GamificationService) *Service {
	return &Service{
		PointService:        pointService,
		CheckinService:      checkinService,
		GamificationService: gamificationService,
	}
}

type PointServiceI interface {
	GetActivePoint(ctx context.Context, pointID int64) (*model.Point, error)
	ListActivePoints(ctx context.Context) ([]*model.Point, error)
}

type CheckinServiceI interface {
	SubmitCheckin(ctx context.Context, req CheckinRequest) (*model.CheckinResult, error)
}

type GamificationServiceI interface {
	GetOverview(ctx context.Context, userID int64) ([]*model.MissionProgress, []*model.UserAchievement, error)
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)
}

type PointRepository interface {
	GetActivePoint(ctx context.Context, pointID int64) (*model.Point, error)
	ListActivePoints(ctx context.Context) ([]*model.Point, error)
}

type ProgressionRepository interface {
	CreateCheckin(ctx context.Context, checkin *model.Checkin) (*model.Checkin, int, error)
	AdvanceStreak(ctx context.Context, userID int64) (int, error)
	UnlockAchievement(ctx context.Context, userID int64, code string) (bool, error)
	ListActiveMissions(ctx context.Context) ([]*model.Mission, error)
	UpsertMissionProgress(ctx context.Context, userID int64, updates []model.MissionProgressUpdate) error
}

type GamificationRepository interface {
	ListMissionProgress(ctx context.Context, userID int64) ([]*model.MissionProgress, error)
	ListUnlockedAchievements(ctx context.Context, userID int64) ([]*model.UserAchievement, error)
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)
}

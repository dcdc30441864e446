package model

import (
	"time"

	"github.com/google/uuid"
)

type Checkin struct {
	ID        uuid.UUID
	UserID    int64
	PointID   int64
	Message   *string
	ImageURL  *string
	CreatedAt time.Time
}

// CheckinResult summarizes a single accepted check-in: how far the user was
// from the point, their updated lifetime counters, and any achievements
// unlocked by this check-in.
type CheckinResult struct {
	Checkin             *Checkin
	DistanceMeters      float64
	TotalCheckins       int
	StreakDays          int
	NewAchievementCodes []string
}

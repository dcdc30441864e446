package model

import "time"

// MissionTargetType is the closed set of metrics a mission can track.
type MissionTargetType string

const (
	TargetTotalCheckins MissionTargetType = "TOTAL_CHECKINS"
	TargetStreakDays    MissionTargetType = "STREAK_DAYS"
)

type Mission struct {
	Code        string
	Name        string
	Description string
	TargetType  MissionTargetType
	TargetValue int
	IsActive    bool
}

type MissionProgress struct {
	Mission       Mission
	ProgressValue int
	CompletedAt   *time.Time
}

// MissionProgressUpdate is one row of a batched progress upsert.
type MissionProgressUpdate struct {
	MissionCode   string
	ProgressValue int
	TargetValue   int
}

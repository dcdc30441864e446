package model

import "time"

// UserStats is the gamification slice of a user profile: streak state,
// lifetime check-in count and the distinct point categories visited.
type UserStats struct {
	UserID            int64
	LastCheckinDate   *time.Time
	CheckinStreakDays int
	TotalCheckins     int
	Categories        []string
}

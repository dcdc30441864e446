package model

import "time"

type Achievement struct {
	Code        string
	Name        string
	Description string
	Icon        string
}

type UserAchievement struct {
	Achievement Achievement
	UnlockedAt  time.Time
}

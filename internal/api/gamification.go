package api

import (
	"errors"
	"net/http"
	"time"

	"cityquest/internal/service"
	"cityquest/pkg/auth"
	"cityquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type gamificationRoutes struct {
	gs service.GamificationServiceI
	a  *auth.IdentityAuth
}

func NewGamificationRoutes(handler *gin.RouterGroup, gs service.GamificationServiceI, a *auth.IdentityAuth) {
	r := &gamificationRoutes{gs: gs, a: a}
	h := handler.Group("/gamification")
	h.Use(a.Middleware())
	{
		h.GET("/overview", r.GetOverview)
	}

	u := handler.Group("/users")
	u.Use(a.Middleware())
	{
		u.GET("/me/stats", r.GetUserStats)
	}
}

type MissionResponse struct {
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	TargetType    string     `json:"target_type"`
	TargetValue   int        `json:"target_value"`
	ProgressValue int        `json:"progress_value"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type AchievementResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

type OverviewResponse struct {
	Missions     []MissionResponse     `json:"missions"`
	Achievements []AchievementResponse `json:"achievements"`
}

func (r *gamificationRoutes) GetOverview(c *gin.Context) {
	log := logger.Logger()

	identity, ok := auth.Identity(c)
	if !ok {
		log.Error("identity claims not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	missions, achievements, err := r.gs.GetOverview(c.Request.Context(), identity.UserID)
	if err != nil {
		log.Error("failed to get gamification overview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get gamification overview"})
		return
	}

	response := OverviewResponse{
		Missions:     make([]MissionResponse, len(missions)),
		Achievements: make([]AchievementResponse, len(achievements)),
	}

	for i, m := range missions {
		response.Missions[i] = MissionResponse{
			Code:          m.Mission.Code,
			Name:          m.Mission.Name,
			Description:   m.Mission.Description,
			TargetType:    string(m.Mission.TargetType),
			TargetValue:   m.Mission.TargetValue,
			ProgressValue: m.ProgressValue,
			IsCompleted:   m.CompletedAt != nil,
			CompletedAt:   m.CompletedAt,
		}
	}

	for i, a := range achievements {
		response.Achievements[i] = AchievementResponse{
			Code:        a.Achievement.Code,
			Name:        a.Achievement.Name,
			Description: a.Achievement.Description,
			Icon:        a.Achievement.Icon,
			UnlockedAt:  a.UnlockedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

type UserStatsResponse struct {
	UserID            int64      `json:"user_id"`
	LastCheckinDate   *time.Time `json:"last_checkin_date,omitempty"`
	CheckinStreakDays int        `json:"checkin_streak_days"`
	TotalCheckins     int        `json:"total_checkins"`
	Categories        []string   `json:"categories"`
}

func (r *gamificationRoutes) GetUserStats(c *gin.Context) {
	log := logger.Logger()

	identity, ok := auth.Identity(c)
	if !ok {
		log.Error("identity claims not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	stats, err := r.gs.GetUserStats(c.Request.Context(), identity.UserID)
	if err != nil {
		log.Error("failed to get user stats", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user stats"})
		return
	}

	c.JSON(http.StatusOK, UserStatsResponse{
		UserID:            stats.UserID,
		LastCheckinDate:   stats.LastCheckinDate,
		CheckinStreakDays: stats.CheckinStreakDays,
		TotalCheckins:     stats.TotalCheckins,
		Categories:        stats.Categories,
	})
}

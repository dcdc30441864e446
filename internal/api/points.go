package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cityquest/internal/service"
	"cityquest/pkg/auth"
	"cityquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type pointRoutes struct {
	ps service.PointServiceI
	cs service.CheckinServiceI
	a  *auth.IdentityAuth
}

func NewPointRoutes(handler *gin.RouterGroup, ps service.PointServiceI, cs service.CheckinServiceI, a *auth.IdentityAuth, checkinLimit gin.HandlerFunc) {
	r := &pointRoutes{ps: ps, cs: cs, a: a}
	h := handler.Group("/points")
	h.Use(a.Middleware())
	{
		h.GET("", r.ListPoints)
		h.POST("/:point_id/checkin", checkinLimit, r.Checkin)
	}
}

type PointResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_m"`
	ImageURL     string  `json:"image_url,omitempty"`
	Category     string  `json:"category,omitempty"`
}

func (r *pointRoutes) ListPoints(c *gin.Context) {
	log := logger.Logger()

	points, err := r.ps.ListActivePoints(c.Request.Context())
	if err != nil {
		log.Error("failed to list points", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list points"})
		return
	}

	response := make([]PointResponse, len(points))
	for i, p := range points {
		response[i] = PointResponse{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			RadiusMeters: p.RadiusMeters,
			ImageURL:     p.ImageURL,
			Category:     p.Category,
		}
	}

	c.JSON(http.StatusOK, gin.H{"points": response})
}

type CheckinRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Message   *string  `json:"message"`
	ImageURL  *string  `json:"image_url"`
}

type CheckinResponse struct {
	CheckinID           string    `json:"checkin_id"`
	PointID             int64     `json:"point_id"`
	CreatedAt           time.Time `json:"created_at"`
	DistanceMeters      float64   `json:"distance_m"`
	TotalCheckins       int       `json:"total_checkins"`
	StreakDays          int       `json:"streak_days"`
	NewAchievementCodes []string  `json:"new_achievement_codes"`
}

func (r *pointRoutes) Checkin(c *gin.Context) {
	log := logger.Logger()

	identity, ok := auth.Identity(c)
	if !ok {
		log.Error("identity claims not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	pointID, err := strconv.ParseInt(c.Param("point_id"), 10, 64)
	if err != nil {
		log.Info("failed to parse point_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point_id"})
		return
	}

	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	result, err := r.cs.SubmitCheckin(c.Request.Context(), service.CheckinRequest{
		UserID:    identity.UserID,
		PointID:   pointID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Message:   req.Message,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		r.writeCheckinError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckinResponse{
		CheckinID:           result.Checkin.ID.String(),
		PointID:             result.Checkin.PointID,
		CreatedAt:           result.Checkin.CreatedAt,
		DistanceMeters:      result.DistanceMeters,
		TotalCheckins:       result.TotalCheckins,
		StreakDays:          result.StreakDays,
		NewAchievementCodes: result.NewAchievementCodes,
	})
}

func (r *pointRoutes) writeCheckinError(c *gin.Context, err error) {
	log := logger.Logger()

	var geofenceErr *service.GeofenceError
	switch {
	case errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
	case errors.Is(err, service.ErrPointNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "point not found or not active"})
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		c.JSON(http.StatusConflict, gin.H{"error": "already checked in at this point"})
	case errors.As(err, &geofenceErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "too far away from the point",
			"distance_m": geofenceErr.DistanceMeters,
			"radius_m":   geofenceErr.RadiusMeters,
		})
	default:
		log.Error("failed to process checkin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process checkin"})
	}
}

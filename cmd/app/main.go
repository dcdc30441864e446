package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"cityquest/internal/api"
	"cityquest/internal/middleware"
	"cityquest/internal/repository"
	"cityquest/internal/service"
	"cityquest/pkg/auth"
	"cityquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, logger.FileConfig{
		Path:       cfg.LogFile.Path,
		MaxSizeMB:  cfg.LogFile.MaxSizeMB,
		MaxBackups: cfg.LogFile.MaxBackups,
		MaxAgeDays: cfg.LogFile.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	pointService, err := service.NewPointService(repo, cfg.PointCache.Size, time.Duration(cfg.PointCache.TTLSeconds)*time.Second)
	if err != nil {
		zapLogger.Fatal("Failed to initialize point service", zap.Error(err))
	}
	checkinService := service.NewCheckinService(pointService, repo)
	gamificationService := service.NewGamificationService(repo)

	identityAuth := auth.NewIdentityAuth(cfg.Identity.JWTSecret)
	checkinLimiter := middleware.NewRateLimiter(cfg.RateLimit.CheckinsPerMinute, cfg.RateLimit.Burst)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	a := router.Group("/api/v1")
	api.NewPointRoutes(a, pointService, checkinService, identityAuth, checkinLimiter.Middleware())
	api.NewGamificationRoutes(a, gamificationService, identityAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

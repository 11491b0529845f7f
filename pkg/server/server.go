package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/auth"
	"github.com/nailscodev/backend/pkg/availability"
	"github.com/nailscodev/backend/pkg/cache"
	"github.com/nailscodev/backend/pkg/config"
	"github.com/nailscodev/backend/pkg/database"
	"github.com/nailscodev/backend/pkg/handlers"
	"github.com/nailscodev/backend/pkg/repository"
	"go.uber.org/zap"
)

// New connects the database and cache and builds the router.
// The returned func releases the cache connection.
func New(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	hours, err := cfg.SchedulerConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.DataPath, cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return nil, nil, fmt.Errorf("ensure admin: %w", err)
	}
	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		logger.Warn("JWT_SECRET or API_MASTER_SECRET is empty; tokens and API keys are signed with an empty secret")
	}
	if err := handlers.RegisterValidators(); err != nil {
		return nil, nil, err
	}

	c := cache.New(cache.Config{
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
		AvailabilityTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		DisableOnError:  true,
	}, logger)

	repo := repository.New(db)
	h := &handlers.Handler{
		DB:           db,
		Repo:         repo,
		Availability: availability.NewService(repo, c, hours, logger),
		Auth:         auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Logger:       logger,
	}

	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing cache", zap.Error(err))
		}
	}
	return h.NewRouter(cfg.MaxRequestsPerMin), cleanup, nil
}

package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/config"
	"github.com/nailscodev/backend/pkg/logging"
	"github.com/nailscodev/backend/pkg/server"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r, cleanup, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("could not start", zap.Error(err))
	}
	defer cleanup()

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}

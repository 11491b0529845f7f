package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/config"
	"github.com/nailscodev/backend/pkg/logging"
	"github.com/nailscodev/backend/pkg/server"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logger, err := logging.New(true, cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	// the function instance keeps its cache connection for its lifetime
	r, _, err = server.New(cfg, logger)
	if err != nil {
		log.Fatalf("could not build router: %v", err)
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}

// ABOUTME: Long-running HTTP daemon for Plant Texts
// ABOUTME: Loads config from the environment and serves the API until SIGINT/SIGTERM
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/plant-texts/internal/api"
	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.ModelEnabled() {
		logger.Warn("OPENAI_API_KEY not set or model disabled, every reply will be a template")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	serveErr := api.Serve(ctx, cfg.HTTPAddr, a.Router(), logger)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}

	if serveErr != nil {
		logger.Fatal("server error", zap.Error(serveErr))
	}
	logger.Info("shutdown complete")
}

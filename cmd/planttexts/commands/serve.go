// ABOUTME: Serve command runs the HTTP API until interrupted
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/plant-texts/internal/api"
	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API server.

Serves the JSON API under /api, a health check at /health and
Prometheus metrics at /metrics. Stops gracefully on SIGINT/SIGTERM.

Examples:
  planttexts serve
  planttexts serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $PLANT_TEXTS_ADDR or :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	return api.Serve(ctx, cfg.HTTPAddr, a.Router(), logger)
}

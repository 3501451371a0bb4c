// ABOUTME: Shared helpers for CLI commands
// ABOUTME: App lifecycle, output formatting, and display utilities
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// closeTimeout bounds how long a command waits for pending evaluation sends
const closeTimeout = 5 * time.Second

// withApp loads config, wires the app, runs fn and closes everything
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, "warn")
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(ctx, a)

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return runErr
}

// newLogger honors --verbose/--quiet; otherwise short-lived commands stay at
// cliLevel unless the configured level is noisier.
func newLogger(configured, cliLevel string) (*zap.Logger, error) {
	level := cliLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	case configured == "debug":
		level = configured
	}
	return app.NewLogger(level)
}

func jsonOutput() bool {
	return outputFormat == "json"
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a past time relative to now
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// formatDue describes a due date relative to now
func formatDue(due, now time.Time) string {
	diff := due.Sub(now)
	switch {
	case diff < -24*time.Hour:
		return fmt.Sprintf("overdue %dd", int(-diff.Hours()/24))
	case diff <= 0:
		return "due now"
	case diff < 24*time.Hour:
		return "today"
	case diff < 48*time.Hour:
		return "tomorrow"
	}
	return due.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// Package cli provides the process bootstrap shared by cmd/expenses,
// cmd/expenses-server and cmd/expenses-worker.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expenses/internal/config"
	applog "expenses/internal/log"
)

// SetupLogger builds the text logger for the given level and installs it as
// the slog default.
func SetupLogger(level slog.Level, component string) *applog.Logger {
	logger := applog.New(applog.Config{Level: level, Component: component, Output: os.Stderr})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file for local development. A missing file is
// not an error.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Bootstrap loads .env, reads and validates the configuration, and sets up
// logging at the configured level.
func Bootstrap(component string) (*config.Config, *applog.Logger, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, nil, err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	return cfg, SetupLogger(level, component), nil
}

// MustBootstrap is Bootstrap that exits the process on failure.
func MustBootstrap(component string) (*config.Config, *applog.Logger) {
	cfg, logger, err := Bootstrap(component)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		}
	}()
	return ctx, cancel
}

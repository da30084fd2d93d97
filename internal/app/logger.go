package app

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/config"
)

// AtomicLogger provides thread-safe logger access so a config hot reload can
// swap the logger under a running server.
type AtomicLogger struct {
	value atomic.Value
}

// NewAtomicLogger creates a new atomic logger wrapper.
func NewAtomicLogger(logger *slog.Logger) *AtomicLogger {
	al := &AtomicLogger{}
	al.value.Store(logger)
	return al
}

// Get returns the current logger instance.
func (al *AtomicLogger) Get() *slog.Logger {
	return al.value.Load().(*slog.Logger)
}

// Set replaces the logger instance.
func (al *AtomicLogger) Set(logger *slog.Logger) {
	al.value.Store(logger)
}

func (app *Application) setupLogger() {
	app.logger = NewAtomicLogger(buildLogger(app.config.Logging))
}

func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

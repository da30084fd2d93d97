package app

import (
	"context"
	"io"
	"net/http"

	txbridge "github.com/altuslabsxyz/tx-bridge"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/config"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/server"
)

// Application holds all demo service dependencies and their lifecycle.
type Application struct {
	config        *config.Config
	configManager *config.Manager
	logger        *AtomicLogger

	// Storage
	pool     txbridge.Beginner
	dbCloser io.Closer

	// Observability
	metrics         *txbridge.Metrics
	metricsHandler  http.Handler
	metricsShutdown func(context.Context) error

	// HTTP layer
	server *server.Server
}

// New creates a fully wired Application from the configuration file at
// configPath.
func New(configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(configPath); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap(configPath string) error {
	if err := app.loadConfig(configPath); err != nil {
		return err
	}
	app.setupLogger()
	if err := app.setupConfigManager(configPath); err != nil {
		return err
	}
	if err := app.initializeStorage(); err != nil {
		return err
	}
	if err := app.setupMetrics(); err != nil {
		return err
	}
	app.setupServer()
	return nil
}

// Start runs the application until ctx is cancelled.
func (app *Application) Start(ctx context.Context) error {
	app.logger.Get().Info("starting tx-bridge",
		"port", app.config.Server.Port,
		"storage", app.config.Storage.Type,
	)
	return app.server.Run(ctx)
}

// Shutdown releases everything Start left open.
func (app *Application) Shutdown() error {
	app.logger.Get().Info("shutting down tx-bridge")

	if app.metricsShutdown != nil {
		if err := app.metricsShutdown(context.Background()); err != nil {
			app.logger.Get().Error("failed to shut down metrics", "error", err)
		}
	}

	if app.dbCloser != nil {
		if err := app.dbCloser.Close(); err != nil {
			app.logger.Get().Error("failed to close database", "error", err)
			return err
		}
	}

	app.logger.Get().Info("tx-bridge stopped")
	return nil
}

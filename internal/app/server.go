package app

import (
	"github.com/altuslabsxyz/tx-bridge/internal/adapter/handler"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/server"
)

func (app *Application) setupServer() {
	notes := handler.NewNotesHandler(app.logger.Get())

	router := server.NewRouter(app.pool, &server.Handlers{
		Notes:   notes,
		Metrics: app.metricsHandler,
	}, app.logger.Get(), app.metrics)

	app.server = server.New(&app.config.Server, router, app.logger.Get())
}

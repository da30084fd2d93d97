package app

import (
	"context"
	"fmt"

	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/persistence/mysql"
	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/persistence/sqlite"
)

func (app *Application) initializeStorage() error {
	ctx := context.Background()

	switch app.config.Storage.Type {
	case "sqlite":
		db, err := sqlite.NewDB(app.config.Storage.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return fmt.Errorf("sqlite migration: %w", err)
		}
		app.pool = db
		app.dbCloser = db

		app.logger.Get().Info("SQLite storage initialized",
			"path", app.config.Storage.SQLite.Path,
		)

	case "mysql":
		db, err := mysql.NewDB(&app.config.Storage.MySQL)
		if err != nil {
			return fmt.Errorf("mysql init: %w", err)
		}
		if err := mysql.Migrate(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("mysql migration: %w", err)
		}
		app.pool = db
		app.dbCloser = db

		app.logger.Get().Info("MySQL storage initialized",
			"host", app.config.Storage.MySQL.Host,
			"database", app.config.Storage.MySQL.Database,
		)

	default:
		return fmt.Errorf("unknown storage type: %s", app.config.Storage.Type)
	}

	return nil
}

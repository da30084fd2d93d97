package app

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/altuslabsxyz/tx-bridge/internal/infrastructure/config"
)

func (app *Application) loadConfig(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	app.config = cfg
	return nil
}

func (app *Application) setupConfigManager(configPath string) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("initializing config watcher: %w", err)
	}

	app.configManager = config.NewManager(app.config, configPath, app.logger.Get())

	// Swap the logger when logging settings change.
	app.configManager.SetReloadCallback(func(newCfg *config.Config) {
		app.logger.Set(buildLogger(newCfg.Logging))
		app.logger.Get().Info("logger reloaded",
			"level", newCfg.Logging.Level,
			"format", newCfg.Logging.Format,
		)
	})

	config.NewWatcher(v, app.configManager, app.logger.Get()).Start()
	return nil
}

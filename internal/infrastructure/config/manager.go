package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// ErrRequiresRestart is returned by TryReload when the changed keys cannot be
// applied to a running service.
var ErrRequiresRestart = errors.New("configuration change requires restart")

// Manager holds the live configuration and applies hot reloads. Only the
// logging section is hot-reloadable; server and storage changes are rejected
// and the previous configuration is kept.
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	logger     *slog.Logger
	onReload   func(*Config)
}

// NewManager creates a Manager around the initial configuration.
func NewManager(cfg *Config, configPath string, logger *slog.Logger) *Manager {
	return &Manager{
		config:     cfg,
		configPath: configPath,
		logger:     logger,
	}
}

// SetReloadCallback registers a function called after every successful reload.
func (m *Manager) SetReloadCallback(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = callback
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// TryReload re-reads the configuration file and swaps it in if only
// hot-reloadable keys changed. On parse or validation failure the previous
// configuration is preserved.
func (m *Manager) TryReload() error {
	newCfg, err := Load(m.configPath)
	if err != nil {
		m.logger.Error("configuration reload failed",
			"error", err,
			"preserved_config", true,
		)
		return fmt.Errorf("reload: %w", err)
	}

	m.mu.RLock()
	oldCfg := m.config
	m.mu.RUnlock()

	if keys := staticChanges(oldCfg, newCfg); len(keys) > 0 {
		m.logger.Warn("configuration change requires restart",
			"changed_keys", keys,
		)
		return ErrRequiresRestart
	}

	changed := oldCfg.Logging != newCfg.Logging

	m.mu.Lock()
	m.config = newCfg
	callback := m.onReload
	m.mu.Unlock()

	if changed {
		m.logger.Info("configuration reloaded",
			"level", newCfg.Logging.Level,
			"format", newCfg.Logging.Format,
		)
	}

	if callback != nil {
		callback(newCfg)
	}
	return nil
}

// staticChanges lists top-level sections that changed but cannot be applied
// without a restart.
func staticChanges(oldCfg, newCfg *Config) []string {
	var keys []string
	if !reflect.DeepEqual(oldCfg.Server, newCfg.Server) {
		keys = append(keys, "server")
	}
	if !reflect.DeepEqual(oldCfg.Storage, newCfg.Storage) {
		keys = append(keys, "storage")
	}
	return keys
}

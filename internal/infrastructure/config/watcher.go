package config

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher watches the configuration file and drives hot reloads through the
// Manager. Editors often produce several filesystem events per save, so
// reloads are debounced.
type Watcher struct {
	viper          *viper.Viper
	manager        *Manager
	logger         *slog.Logger
	debounceMu     sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher for the file the given viper instance reads.
func NewWatcher(v *viper.Viper, m *Manager, logger *slog.Logger) *Watcher {
	return &Watcher{
		viper:          v,
		manager:        m,
		logger:         logger,
		debouncePeriod: 200 * time.Millisecond,
	}
}

// Start begins watching. It returns immediately; reloads happen on viper's
// watch goroutine.
func (w *Watcher) Start() {
	w.viper.WatchConfig()
	w.viper.OnConfigChange(w.onConfigChange)
	w.logger.Info("config watcher started",
		"path", w.viper.ConfigFileUsed(),
	)
}

func (w *Watcher) onConfigChange(e fsnotify.Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	if e.Op.Has(fsnotify.Remove) {
		w.logger.Error("config file removed; keeping current configuration",
			"file", e.Name,
		)
		return
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.manager.TryReload(); err != nil && !errors.Is(err, ErrRequiresRestart) {
			// TryReload already logged the details.
			return
		}
	})
}

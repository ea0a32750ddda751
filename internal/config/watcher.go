package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file for changes and reloads it. A reload
// that parses cleanly invokes the reload callback with the new config;
// a malformed file invokes the error callback and keeps the old config
// in effect.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	logger     *slog.Logger

	onReload func(*Config)
	onError  func(error)

	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a Watcher for the given config path, or the
// default path when empty.
func NewWatcher(configPath string, logger *slog.Logger) (*Watcher, error) {
	if configPath == "" {
		configPath = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:    watcher,
		configPath: configPath,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with a freshly parsed
// config after the file changes.
func (w *Watcher) SetReloadCallback(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// SetErrorCallback sets the callback invoked when a changed file fails
// to parse.
func (w *Watcher) SetErrorCallback(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start begins watching. The containing directory is watched rather
// than the file itself, which survives editors that replace the file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return err
	}

	go w.watch()
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.configPath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("config file changed, reloading", "file", w.configPath)
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// reload re-parses the file and dispatches to the callbacks.
func (w *Watcher) reload() {
	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	w.mu.Unlock()

	cfg, err := Load(w.configPath)
	if err != nil {
		w.logger.Warn("config reload failed", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	if onReload != nil {
		onReload(cfg)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}

package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
)

const defaultDebounce = 2 * time.Second

// ConfigWatcher calls reload when the configuration file changes. Bursts of
// events within the debounce window collapse into one reload.
type ConfigWatcher struct {
	configPath string
	reload     func(ctx context.Context)
	watcher    *fsnotify.Watcher
	debounce   time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewConfigWatcher creates a watcher for configPath. A non-positive debounce
// uses the default of two seconds.
func NewConfigWatcher(configPath string, debounce time.Duration, reload func(ctx context.Context)) (*ConfigWatcher, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, ferrors.DaemonError("failed to resolve config path").WithCause(err).WithContext("path", configPath).Build()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.DaemonError("failed to create file watcher").WithCause(err).Build()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &ConfigWatcher{
		configPath: absPath,
		reload:     reload,
		watcher:    watcher,
		debounce:   debounce,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start watches the directory holding the config file. Editors that replace
// the file on save would drop a watch on the file itself.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(dir); err != nil {
		return ferrors.DaemonError("failed to watch config directory").WithCause(err).WithContext("path", dir).Build()
	}
	slog.Info("Watching configuration", logfields.Path(cw.configPath))
	go cw.watchLoop(ctx)
	return nil
}

// Stop ends the watch and cancels a pending reload.
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		cw.mu.Lock()
		if cw.timer != nil {
			cw.timer.Stop()
		}
		cw.mu.Unlock()
		if err := cw.watcher.Close(); err != nil {
			slog.Warn("Error closing file watcher", logfields.Error(err))
		}
	})
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	name := filepath.Base(cw.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Config file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				cw.trigger(ctx)
			case event.Has(fsnotify.Remove):
				slog.Warn("Config file removed", logfields.Path(event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}

func (cw *ConfigWatcher) trigger(ctx context.Context) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, func() {
		select {
		case <-cw.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}
		cw.reload(ctx)
	})
}

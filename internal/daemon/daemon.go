package daemon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/config"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
)

// Status represents the current state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
)

// RunFunc performs one generation with the given configuration.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// LoadFunc reads the configuration file.
type LoadFunc func(path string) (*config.Config, error)

// Daemon schedules generations and keeps the configuration current.
type Daemon struct {
	configPath string
	run        RunFunc
	load       LoadFunc
	debounce   time.Duration

	mu     sync.RWMutex
	config *config.Config
	ctx    context.Context

	status    atomic.Value // Status
	runs      atomic.Int64
	scheduler *Scheduler
	watcher   *ConfigWatcher
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithLoader replaces config.Load for reloads.
func WithLoader(load LoadFunc) Option {
	return func(d *Daemon) { d.load = load }
}

// WithDebounce sets the config reload debounce window.
func WithDebounce(window time.Duration) Option {
	return func(d *Daemon) { d.debounce = window }
}

// New creates a daemon. configPath may be empty to disable reloads.
func New(cfg *config.Config, configPath string, run RunFunc, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, ferrors.DaemonError("configuration is required").Build()
	}
	d := &Daemon{
		configPath: configPath,
		run:        run,
		load:       config.Load,
		config:     cfg,
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.status.Store(StatusStopped)

	s, err := NewScheduler(d.execute)
	if err != nil {
		return nil, err
	}
	d.scheduler = s
	return d, nil
}

// Start schedules the generation job and the config watcher. It returns once
// both are running; use Stop to shut them down.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = ctx
	cfg := d.config
	d.mu.Unlock()

	if err := d.scheduler.Schedule(cfg.Daemon); err != nil {
		return err
	}
	if d.configPath != "" {
		w, err := NewConfigWatcher(d.configPath, d.debounce, d.reload)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		d.watcher = w
	}
	d.scheduler.Start()
	d.status.Store(StatusRunning)
	slog.Info("Daemon started")
	return nil
}

// Stop shuts down the watcher and the scheduler, waiting for a running generation.
func (d *Daemon) Stop(ctx context.Context) error {
	d.status.Store(StatusStopping)
	if d.watcher != nil {
		d.watcher.Stop()
	}
	err := d.scheduler.Stop(ctx)
	d.status.Store(StatusStopped)
	return err
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return d.status.Load().(Status)
}

// Runs is the number of generations started since the daemon was created.
func (d *Daemon) Runs() int64 {
	return d.runs.Load()
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}

// RunNow performs one generation immediately with the active configuration.
func (d *Daemon) RunNow(ctx context.Context) error {
	d.runs.Add(1)
	return d.run(ctx, d.Config())
}

func (d *Daemon) execute() {
	d.mu.RLock()
	ctx := d.ctx
	d.mu.RUnlock()
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	slog.Info("Scheduled generation starting")
	if err := d.RunNow(ctx); err != nil {
		slog.Error("Scheduled generation failed", logfields.Error(err))
		return
	}
	slog.Info("Scheduled generation finished", logfields.DurationMS(float64(time.Since(started).Milliseconds())))
}

// ReloadConfig swaps in cfg and reschedules when the schedule changed.
func (d *Daemon) ReloadConfig(cfg *config.Config) error {
	d.mu.Lock()
	previous := d.config
	d.config = cfg
	d.mu.Unlock()

	if previous.Daemon != cfg.Daemon {
		if err := d.scheduler.Schedule(cfg.Daemon); err != nil {
			d.mu.Lock()
			d.config = previous
			d.mu.Unlock()
			return err
		}
	}
	return nil
}

func (d *Daemon) reload(_ context.Context) {
	slog.Info("Reloading configuration", logfields.Path(d.configPath))
	cfg, err := d.load(d.configPath)
	if err != nil {
		slog.Error("Failed to reload configuration, keeping the previous one", logfields.Error(err))
		return
	}
	if err := d.ReloadConfig(cfg); err != nil {
		slog.Error("Failed to apply reloaded configuration", logfields.Error(err))
		return
	}
	slog.Info("Configuration reloaded")
}

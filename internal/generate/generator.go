package generate

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/config"
	"git.home.luguber.info/inful/chronicle/internal/engine"
	"git.home.luguber.info/inful/chronicle/internal/history"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
	"git.home.luguber.info/inful/chronicle/internal/metrics"
	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/notify"
	"git.home.luguber.info/inful/chronicle/internal/renderer"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

// DefaultWindow is the look-back used when Request.Since is zero.
const DefaultWindow = 24 * time.Hour

// Request parameterises one generation.
type Request struct {
	Date   time.Time // zero means today, local time
	Since  time.Time // zero means Date's now minus DefaultWindow
	Only   []engine.Kind
	DryRun bool
}

// Outcome describes what a generation did.
type Outcome struct {
	RunID      string
	Status     metrics.Outcome
	Chronicle  models.Chronicle
	Document   []byte // rendered chronicle, set for dry runs and written runs
	OutputPath string
	Warnings   []engine.Warning
	Duration   time.Duration
}

// Generator runs generations for one configuration.
type Generator struct {
	cfg      *config.Config
	recorder metrics.Recorder
	textfile *metrics.PrometheusRecorder
	notifier notify.Notifier
	history  *history.Store
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now for the run and the engine.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithNotifier replaces the notifier built from notify.nats_url.
func WithNotifier(n notify.Notifier) Option {
	return func(g *Generator) { g.notifier = n }
}

// New builds a generator. Optional sinks (history, metrics, notify) that fail
// to initialise are logged and disabled.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.Metrics.Textfile != "" {
		g.textfile = metrics.NewPrometheusRecorder(nil)
		g.recorder = g.textfile
	}
	if g.notifier == nil {
		n, err := notify.New(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Run notifications disabled", logfields.Error(err))
			n = notify.Noop{}
		}
		g.notifier = n
	}
	if cfg.History.Path != "" {
		h, err := history.Open(config.ResolvePath(cfg.History.Path))
		if err != nil {
			slog.Warn("Run history disabled", logfields.Error(err))
		} else {
			g.history = h
		}
	}
	return g
}

// Close releases the history database and the notifier connection.
func (g *Generator) Close() {
	g.notifier.Close()
	if g.history != nil {
		if err := g.history.Close(); err != nil {
			slog.Warn("Failed to close run history", logfields.Error(err))
		}
		g.history = nil
	}
}

// Run performs one generation. Only configuration, state, render and engine
// errors fail it; sink failures are logged.
func (g *Generator) Run(ctx context.Context, req Request) (Outcome, error) {
	started := g.now()
	req = g.withDefaults(req, started)

	out, err := g.generate(ctx, req)
	out.Duration = g.now().Sub(started)
	if err != nil {
		out.Status = metrics.OutcomeFailed
		g.recorder.ObserveRun(out.Duration, out.Status)
		g.exportMetrics()
		return out, err
	}

	g.observe(out)
	g.record(ctx, out, started)
	if out.Status == metrics.OutcomeWritten {
		g.notify(ctx, out)
	}
	return out, nil
}

func (g *Generator) withDefaults(req Request, now time.Time) Request {
	if req.Date.IsZero() {
		y, m, d := now.Date()
		req.Date = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	if req.Since.IsZero() {
		req.Since = now.Add(-DefaultWindow)
	}
	return req
}

func (g *Generator) generate(ctx context.Context, req Request) (Outcome, error) {
	store := state.NewStore(g.cfg.StatePath())
	prior, err := store.Load()
	if err != nil {
		return Outcome{}, err
	}

	eng := engine.New(engine.Sources{
		Repos:     config.ResolvePaths(g.cfg.Repos),
		TodoFiles: config.ResolvePaths(g.cfg.TodoFiles),
		NotesDirs: config.ResolvePaths(g.cfg.NotesDirs),
	}, engine.Limits{
		MaxCommits:      g.cfg.Limits.MaxCommits,
		MaxChangedFiles: g.cfg.Limits.MaxChangedFiles,
		MaxNoteFiles:    g.cfg.Limits.MaxNoteFiles,
		MaxCharsPerItem: g.cfg.Limits.MaxCharsPerItem,
	}, engine.WithClock(g.now))

	res, err := eng.Run(ctx, prior, engine.Options{Date: req.Date, Since: req.Since, Only: req.Only})
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{RunID: res.RunID, Chronicle: res.Chronicle, Warnings: res.Warnings}
	log := slog.With(logfields.RunID(res.RunID))

	if !res.Chronicle.HasActivity() {
		out.Status = metrics.OutcomeNoActivity
		log.Info("No activity to report")
		return out, nil
	}

	r := renderer.New(renderer.Options{
		ShowAuthors:     g.cfg.Display.ShowAuthors,
		MaxChangedFiles: g.cfg.Limits.MaxChangedFiles,
	})
	doc, err := r.Document(&res.Chronicle, res.RunID)
	if err != nil {
		return out, err
	}
	out.Document = doc

	if req.DryRun {
		out.Status = metrics.OutcomeDryRun
		log.Info("Dry run, chronicle not written")
		return out, nil
	}

	path, err := renderer.WriteFile(g.cfg.OutputPath(), req.Date, doc)
	if err != nil {
		return out, err
	}
	out.OutputPath = path
	if err := store.Save(res.State); err != nil {
		return out, err
	}
	out.Status = metrics.OutcomeWritten
	log.Info("Chronicle written", logfields.Path(path))
	return out, nil
}

func (g *Generator) observe(out Outcome) {
	g.recorder.ObserveRun(out.Duration, out.Status)
	g.recorder.ObserveChronicle(&out.Chronicle)
	for _, w := range out.Warnings {
		g.recorder.IncSourceWarning(string(w.Kind))
	}
	g.exportMetrics()
}

func (g *Generator) exportMetrics() {
	if g.textfile == nil {
		return
	}
	if err := g.textfile.WriteTextfile(config.ResolvePath(g.cfg.Metrics.Textfile)); err != nil {
		slog.Warn("Failed to export metrics", logfields.Error(err))
	}
}

func (g *Generator) record(ctx context.Context, out Outcome, started time.Time) {
	if g.history == nil {
		return
	}
	run := history.Run{
		ID:         out.RunID,
		StartedAt:  started,
		Date:       out.Chronicle.Date.Format(time.DateOnly),
		Since:      out.Chronicle.Since,
		Duration:   out.Duration,
		Stats:      out.Chronicle.Stats(),
		OutputPath: out.OutputPath,
	}
	for _, w := range out.Warnings {
		run.Warnings = append(run.Warnings, history.Warning{
			Kind:    string(w.Kind),
			Source:  w.Source,
			Message: w.Err.Error(),
		})
	}
	if err := g.history.Record(ctx, run); err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(out.RunID), logfields.Error(err))
	}
}

func (g *Generator) notify(ctx context.Context, out Outcome) {
	summary := notify.RunSummary{
		RunID:      out.RunID,
		Date:       out.Chronicle.Date.Format(time.DateOnly),
		Since:      out.Chronicle.Since,
		OutputPath: out.OutputPath,
		Stats:      out.Chronicle.Stats(),
		Warnings:   len(out.Warnings),
	}
	if err := g.notifier.Notify(ctx, summary); err != nil {
		slog.Warn("Failed to publish run notification", logfields.RunID(out.RunID), logfields.Error(err))
	}
}

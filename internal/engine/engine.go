package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/chronicle/internal/classify"
	"git.home.luguber.info/inful/chronicle/internal/collect"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/git"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

// Sources are the configured source identities, in configuration order.
type Sources struct {
	Repos     []string
	TodoFiles []string
	NotesDirs []string
}

// Validate rejects a path listed more than once. State is keyed by path, so
// each path may identify only one source.
func (s Sources) Validate() error {
	seen := make(map[string]Kind)
	for _, group := range []struct {
		kind  Kind
		paths []string
	}{
		{KindGit, s.Repos},
		{KindTodos, s.TodoFiles},
		{KindNotes, s.NotesDirs},
	} {
		for _, p := range group.paths {
			if prev, ok := seen[p]; ok {
				msg := fmt.Sprintf("source %s is configured as both %s and %s", p, prev, group.kind)
				if prev == group.kind {
					msg = fmt.Sprintf("%s source %s is listed more than once", prev, p)
				}
				return ferrors.ConfigError(msg).WithContext("source", p).Build()
			}
			seen[p] = group.kind
		}
	}
	return nil
}

// Limits bounds collection.
type Limits struct {
	MaxCommits      int
	MaxChangedFiles int
	MaxNoteFiles    int
	MaxCharsPerItem int
}

// Options parameterise a single run.
type Options struct {
	Date  time.Time
	Since time.Time
	Only  []Kind // empty means all kinds
}

// Warning is a source that was skipped.
type Warning struct {
	Kind   Kind
	Source string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("skipping %s source %q: %v", w.Kind, w.Source, w.Err)
}

// Result is the outcome of a run.
type Result struct {
	RunID     string
	Chronicle models.Chronicle
	State     state.State
	Warnings  []Warning
}

// Engine runs generations over a fixed set of sources.
type Engine struct {
	sources Sources
	limits  Limits
	git     *collect.GitCollector
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine for the given sources.
func New(sources Sources, limits Limits, opts ...Option) *Engine {
	e := &Engine{
		sources: sources,
		limits:  limits,
		git: collect.NewGitCollector(git.WalkLimits{
			MaxCommits:      limits.MaxCommits,
			MaxChangedFiles: limits.MaxChangedFiles,
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run classifies every enabled source against prior and returns the report
// with the next state. Only context cancellation or a non-recoverable error
// fails the run; recoverable source errors become warnings.
func (e *Engine) Run(ctx context.Context, prior state.State, opts Options) (Result, error) {
	if err := e.sources.Validate(); err != nil {
		return Result{}, err
	}
	now := e.now().UTC()
	res := Result{
		RunID: uuid.NewString(),
		Chronicle: models.Chronicle{
			Date:        opts.Date,
			Since:       opts.Since.UTC(),
			GeneratedAt: now,
		},
		State: prior.Clone(),
	}
	log := slog.With(logfields.RunID(res.RunID))
	log.Debug("Starting chronicle run", slog.Time("since", res.Chronicle.Since))

	r := &run{engine: e, ctx: ctx, prior: prior, opts: opts, now: now, res: &res, log: log}

	steps := []struct {
		kind Kind
		fn   func() error
	}{
		{KindGit, r.repos},
		{KindTodos, r.todos},
		{KindNotes, r.notes},
	}
	for _, step := range steps {
		if !enabled(opts.Only, step.kind) {
			continue
		}
		if err := step.fn(); err != nil {
			return Result{}, err
		}
	}

	log.Info("Chronicle run classified",
		slog.Int("repositories", len(res.Chronicle.Repositories)),
		slog.Int("todos", len(res.Chronicle.Todos)),
		slog.Int("notes", len(res.Chronicle.Notes)),
		slog.Int("warnings", len(res.Warnings)))
	return res, nil
}

type run struct {
	engine *Engine
	ctx    context.Context
	prior  state.State
	opts   Options
	now    time.Time
	res    *Result
	log    *slog.Logger
}

// skip records a recoverable source failure. Anything else aborts the run.
func (r *run) skip(kind Kind, source string, err error) error {
	if !ferrors.IsRecoverable(err) {
		return err
	}
	w := Warning{Kind: kind, Source: source, Err: err}
	r.res.Warnings = append(r.res.Warnings, w)
	r.log.Warn("Skipping source", logfields.SourceKind(string(kind)), logfields.Source(source), logfields.Error(err))
	return nil
}

func (r *run) checkContext() error {
	if err := r.ctx.Err(); err != nil {
		return ferrors.InternalError("chronicle run cancelled").WithCause(err).Build()
	}
	return nil
}

func priorRecord[T state.SourceRecord](s state.State, id string) *T {
	rec, ok := state.Lookup[T](s, id)
	if !ok {
		return nil
	}
	return &rec
}

func (r *run) repos() error {
	for _, path := range r.engine.sources.Repos {
		if err := r.checkContext(); err != nil {
			return err
		}
		obs, err := r.engine.git.Collect(path, r.opts.Since)
		if err != nil {
			if err := r.skip(KindGit, path, err); err != nil {
				return err
			}
			continue
		}

		prior := priorRecord[state.GitRecord](r.prior, path)
		branches, next, ok := classify.ClassifyBranches(obs.DefaultBranch, prior, obs.Branches, r.now)
		if !ok {
			r.log.Debug("No branch activity", logfields.Source(path))
			continue
		}
		r.res.State.Put(path, next)
		r.res.Chronicle.Repositories = append(r.res.Chronicle.Repositories, models.Repository{
			Path:          obs.Path,
			Name:          obs.Name,
			DefaultBranch: obs.DefaultBranch,
			Branches:      branches,
		})
		r.log.Debug("Repository classified", logfields.Source(path), logfields.Count(len(branches)))
	}
	return nil
}

func (r *run) todos() error {
	for _, path := range r.engine.sources.TodoFiles {
		if err := r.checkContext(); err != nil {
			return err
		}
		file, err := collect.ReadTodoFile(path)
		if err != nil {
			if err := r.skip(KindTodos, path, err); err != nil {
				return err
			}
			continue
		}

		prior := priorRecord[state.TodoRecord](r.prior, path)
		items, next := classify.ClassifyTodos(prior, classify.ParseTodos(file.Content, path), file.LastModified, r.now)
		r.res.State.Put(path, next)
		reported := classify.Reportable(items)
		r.res.Chronicle.Todos = append(r.res.Chronicle.Todos, reported...)
		r.log.Debug("Todo file classified", logfields.Source(path), logfields.Count(len(reported)))
	}
	return nil
}

func (r *run) notes() error {
	var collected []models.Note
	for _, dir := range r.engine.sources.NotesDirs {
		if err := r.checkContext(); err != nil {
			return err
		}
		observed, err := collect.ScanNotes(dir, r.opts.Since, r.engine.limits.MaxCharsPerItem)
		if err != nil {
			if err := r.skip(KindNotes, dir, err); err != nil {
				return err
			}
			continue
		}

		prior := priorRecord[state.NotesRecord](r.prior, dir)
		notes, next := classify.ClassifyNotes(prior, observed, r.now)
		r.res.State.Put(dir, next)
		collected = append(collected, notes...)
		r.log.Debug("Notes directory classified", logfields.Source(dir), logfields.Count(len(notes)))
	}
	r.res.Chronicle.Notes = classify.MergeNotes(collected, r.engine.limits.MaxNoteFiles)
	return nil
}

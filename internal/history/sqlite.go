package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the history database. Use ":memory:" for an
// in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, ferrors.HistoryError("failed to create history directory").
				WithCause(err).
				WithContext("path", dbPath).
				Build()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, ferrors.HistoryError("failed to open history database").
			WithCause(err).
			WithContext("path", dbPath).
			Build()
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.HistoryError("failed to initialize history schema").
			WithCause(err).
			WithContext("path", dbPath).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		report_date TEXT NOT NULL,
		since INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		repos INTEGER NOT NULL,
		commits INTEGER NOT NULL,
		new_branches INTEGER NOT NULL,
		todos_new INTEGER NOT NULL,
		todos_completed INTEGER NOT NULL,
		notes INTEGER NOT NULL,
		output_path TEXT
	);
	CREATE TABLE IF NOT EXISTS run_warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_run_warnings_run_id ON run_warnings(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its warnings in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ferrors.HistoryError("failed to begin history transaction").WithCause(err).Build()
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, report_date, since, duration_ms, repos, commits, new_branches,
			todos_new, todos_completed, notes, output_path) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Date, run.Since.Unix(), run.Duration.Milliseconds(),
		run.Stats.RepoCount, run.Stats.CommitCount, run.Stats.NewBranchCount,
		run.Stats.TodosNew, run.Stats.TodosCompleted, run.Stats.NotesCount, run.OutputPath,
	)
	if err != nil {
		return ferrors.HistoryError("failed to insert run").WithCause(err).WithContext("run_id", run.ID).Build()
	}

	for _, w := range run.Warnings {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_warnings (run_id, kind, source, message) VALUES (?, ?, ?, ?)",
			run.ID, w.Kind, w.Source, w.Message,
		)
		if err != nil {
			return ferrors.HistoryError("failed to insert run warning").WithCause(err).WithContext("run_id", run.ID).Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return ferrors.HistoryError("failed to commit run").WithCause(err).WithContext("run_id", run.ID).Build()
	}
	return nil
}

// List returns up to limit runs, newest first, with their warnings.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, report_date, since, duration_ms, repos, commits, new_branches,
			todos_new, todos_completed, notes, output_path
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, ferrors.HistoryError("failed to query runs").WithCause(err).Build()
	}

	runs, err := scanRuns(rows)
	_ = rows.Close()
	if err != nil {
		return nil, err
	}

	for i := range runs {
		ws, err := s.warnings(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Warnings = ws
	}
	return runs, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r                Run
			startedMS, since int64
			durationMS       int64
			output           sql.NullString
		)
		err := rows.Scan(&r.ID, &startedMS, &r.Date, &since, &durationMS,
			&r.Stats.RepoCount, &r.Stats.CommitCount, &r.Stats.NewBranchCount,
			&r.Stats.TodosNew, &r.Stats.TodosCompleted, &r.Stats.NotesCount, &output)
		if err != nil {
			return nil, ferrors.HistoryError("failed to scan run").WithCause(err).Build()
		}
		r.StartedAt = time.UnixMilli(startedMS).UTC()
		r.Since = time.Unix(since, 0).UTC()
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.OutputPath = output.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.HistoryError("failed to iterate runs").WithCause(err).Build()
	}
	return runs, nil
}

func (s *Store) warnings(ctx context.Context, runID string) ([]Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, source, message FROM run_warnings WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, ferrors.HistoryError("failed to query run warnings").WithCause(err).Build()
	}
	defer rows.Close()

	var out []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.Kind, &w.Source, &w.Message); err != nil {
			return nil, ferrors.HistoryError("failed to scan run warning").WithCause(err).Build()
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run warnings: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

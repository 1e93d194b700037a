package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeySource     = "source"
	KeySourceKind = "source_kind"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyChange     = "change"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeySchedule   = "schedule"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func SourceKind(k string) slog.Attr   { return slog.String(KeySourceKind, k) }
func Branch(name string) slog.Attr    { return slog.String(KeyBranch, name) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Change(c string) slog.Attr       { return slog.String(KeyChange, c) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Schedule(s string) slog.Attr     { return slog.String(KeySchedule, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

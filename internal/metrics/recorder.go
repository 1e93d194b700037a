package metrics

import (
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
)

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeWritten    Outcome = "written"     // report written and state saved
	OutcomeNoActivity Outcome = "no_activity" // nothing to report
	OutcomeDryRun     Outcome = "dry_run"
	OutcomeFailed     Outcome = "failed"
)

// Recorder receives run observations. Implementations must be safe to call
// from the daemon's job goroutine.
type Recorder interface {
	ObserveRun(d time.Duration, outcome Outcome)
	ObserveChronicle(c *models.Chronicle)
	IncSourceWarning(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRun(time.Duration, Outcome)  {}
func (NoopRecorder) ObserveChronicle(*models.Chronicle) {}
func (NoopRecorder) IncSourceWarning(string)            {}

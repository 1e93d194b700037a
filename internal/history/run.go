package history

import (
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
)

// Run is one recorded generation.
type Run struct {
	ID         string
	StartedAt  time.Time
	Date       string // YYYY-MM-DD of the report
	Since      time.Time
	Duration   time.Duration
	Stats      models.Stats
	OutputPath string // empty for dry runs and runs without activity
	Warnings   []Warning
}

// Warning is a source skipped during a run.
type Warning struct {
	Kind    string
	Source  string
	Message string
}

package daemon

import (
	"context"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/chronicle/internal/config"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
)

// DefaultDailyAt is used when neither daemon.schedule nor daemon.at is set.
const DefaultDailyAt = "07:00"

const jobName = "chronicle-gen"

// Scheduler wraps a gocron scheduler holding the single generation job.
type Scheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	task      func()
}

// NewScheduler creates a scheduler that runs task. Overlapping executions are
// rescheduled rather than run concurrently.
func NewScheduler(task func()) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(gocron.WithSingletonMode(gocron.LimitModeReschedule)),
	)
	if err != nil {
		return nil, ferrors.DaemonError("failed to create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s, task: task}, nil
}

// JobDefinition maps the daemon config onto a gocron definition and a human
// readable description. A cron schedule wins over a daily time.
func JobDefinition(cfg config.DaemonConfig) (gocron.JobDefinition, string, error) {
	if cfg.Schedule != "" {
		return gocron.CronJob(cfg.Schedule, false), cfg.Schedule, nil
	}
	at := cfg.At
	if at == "" {
		at = DefaultDailyAt
	}
	atTime, err := config.ParseDailyTime(at)
	if err != nil {
		return nil, "", ferrors.ConfigError("invalid daemon.at").
			WithCause(err).
			WithContext("at", at).
			Build()
	}
	return gocron.DailyJob(1, gocron.NewAtTimes(atTime)), "daily at " + at, nil
}

// Schedule creates the job, or replaces its definition when it already exists.
func (s *Scheduler) Schedule(cfg config.DaemonConfig) error {
	def, desc, err := JobDefinition(cfg)
	if err != nil {
		return err
	}

	var job gocron.Job
	if s.job == nil {
		job, err = s.scheduler.NewJob(def, gocron.NewTask(s.task), gocron.WithName(jobName))
	} else {
		job, err = s.scheduler.Update(s.job.ID(), def, gocron.NewTask(s.task), gocron.WithName(jobName))
	}
	if err != nil {
		return ferrors.DaemonError("failed to schedule generation").
			WithCause(err).
			WithContext("schedule", desc).
			Build()
	}
	s.job = job
	slog.Info("Generation scheduled", logfields.Schedule(desc))
	return nil
}

// Jobs is the number of jobs registered with the scheduler.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler, waiting for a running job.
func (s *Scheduler) Stop(_ context.Context) error {
	if err := s.scheduler.Shutdown(); err != nil {
		return ferrors.DaemonError("failed to stop scheduler").WithCause(err).Build()
	}
	return nil
}

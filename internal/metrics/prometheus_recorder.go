package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/models"
)

const namespace = "chronicle"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	runDuration    prom.Gauge
	runOutcomes    *prom.CounterVec
	lastRun        prom.Gauge
	entities       *prom.GaugeVec
	sourceWarnings *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the chronicle metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last chronicle run",
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Chronicle runs by final status",
		}, []string{"outcome"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last chronicle run",
		}),
		entities: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "reported_entities",
			Help:      "Entities reported by the last run by kind and change",
		}, []string{"kind", "change"}),
		sourceWarnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "source_warnings_total",
			Help:      "Sources skipped because of collector errors",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.runDuration, pr.runOutcomes, pr.lastRun, pr.entities, pr.sourceWarnings)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveRun(d time.Duration, outcome Outcome) {
	p.runDuration.Set(d.Seconds())
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
	p.lastRun.SetToCurrentTime()
}

// ObserveChronicle replaces the entity gauges with the counts of c.
func (p *PrometheusRecorder) ObserveChronicle(c *models.Chronicle) {
	p.entities.Reset()

	branches := map[models.ChangeKind]int{}
	commits := 0
	for _, r := range c.Repositories {
		commits += r.CommitCount()
		for _, b := range r.Branches {
			branches[b.Change]++
		}
	}
	todos := map[models.ChangeKind]int{}
	for _, t := range c.Todos {
		todos[t.Change]++
	}
	notes := map[models.ChangeKind]int{}
	for _, n := range c.Notes {
		notes[n.Change]++
	}

	for _, change := range []models.ChangeKind{models.ChangeNew, models.ChangeModified} {
		p.entities.WithLabelValues("branch", string(change)).Set(float64(branches[change]))
		p.entities.WithLabelValues("todo", string(change)).Set(float64(todos[change]))
		p.entities.WithLabelValues("note", string(change)).Set(float64(notes[change]))
	}
	p.entities.WithLabelValues("commit", string(models.ChangeNew)).Set(float64(commits))
}

func (p *PrometheusRecorder) IncSourceWarning(kind string) {
	p.sourceWarnings.WithLabelValues(kind).Inc()
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return ferrors.MetricsError("failed to write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

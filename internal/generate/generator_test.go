package generate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chronicle/internal/config"
	"git.home.luguber.info/inful/chronicle/internal/history"
	"git.home.luguber.info/inful/chronicle/internal/metrics"
	"git.home.luguber.info/inful/chronicle/internal/notify"
	"git.home.luguber.info/inful/chronicle/internal/renderer"
	"git.home.luguber.info/inful/chronicle/internal/state"
	helpers "git.home.luguber.info/inful/chronicle/internal/testutil/testutils"
)

var (
	cutoff = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	clock  = func() time.Time { return cutoff.Add(12 * time.Hour) }
)

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []notify.RunSummary
}

func (n *recordingNotifier) Notify(_ context.Context, s notify.RunSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.summaries = append(n.summaries, s)
	return nil
}

func (n *recordingNotifier) Close() {}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	work := t.TempDir()
	todo := helpers.WriteFile(t, work, "todo.md", "- [ ] Buy milk\n", cutoff.Add(time.Hour))

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(work, "chronicles")
	cfg.StateFile = filepath.Join(work, "state.json")
	cfg.Repos = nil
	cfg.TodoFiles = []string{todo}
	cfg.History.Path = filepath.Join(work, "history.db")
	cfg.Metrics.Textfile = filepath.Join(work, "chronicle.prom")
	return cfg, work
}

func TestRunWritesChronicleAndSinks(t *testing.T) {
	cfg, work := testConfig(t)
	n := &recordingNotifier{}
	g := New(cfg, WithClock(clock), WithNotifier(n))
	t.Cleanup(g.Close)

	out, err := g.Run(context.Background(), Request{Since: cutoff})
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeWritten, out.Status)
	require.Equal(t, filepath.Join(cfg.OutputDir, "chronicle-2025-05-01.md"), out.OutputPath)

	data, err := os.ReadFile(out.OutputPath)
	require.NoError(t, err)
	ok, err := renderer.Verify(data)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(data), "Buy milk")

	st, err := state.NewStore(cfg.StateFile).Load()
	require.NoError(t, err)
	require.Len(t, st.Sources, 1)

	prom, err := os.ReadFile(filepath.Join(work, "chronicle.prom"))
	require.NoError(t, err)
	require.Contains(t, string(prom), `chronicle_run_outcomes_total{outcome="written"} 1`)

	require.Len(t, n.summaries, 1)
	require.Equal(t, out.RunID, n.summaries[0].RunID)
	require.Equal(t, "2025-05-01", n.summaries[0].Date)

	g.Close()
	h, err := history.Open(cfg.History.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	runs, err := h.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, out.RunID, runs[0].ID)
	require.Equal(t, 1, runs[0].Stats.TodosNew)
}

func TestRunIsIdempotent(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.History.Path = ""
	n := &recordingNotifier{}
	g := New(cfg, WithClock(clock), WithNotifier(n))
	t.Cleanup(g.Close)

	first, err := g.Run(context.Background(), Request{Since: cutoff})
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeWritten, first.Status)

	second, err := g.Run(context.Background(), Request{Since: cutoff})
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeNoActivity, second.Status)
	require.Empty(t, second.OutputPath)
	require.Len(t, n.summaries, 1, "no notification without a written chronicle")
}

func TestDryRunDoesNotPersist(t *testing.T) {
	cfg, _ := testConfig(t)
	g := New(cfg, WithClock(clock), WithNotifier(notify.Noop{}))
	t.Cleanup(g.Close)

	out, err := g.Run(context.Background(), Request{Since: cutoff, DryRun: true})
	require.NoError(t, err)
	require.Equal(t, metrics.OutcomeDryRun, out.Status)
	require.NotEmpty(t, out.Document)
	require.Empty(t, out.OutputPath)

	require.False(t, state.NewStore(cfg.StateFile).Exists())
	helpers.NewFileAssertions(t, cfg.OutputDir).AssertFileNotExists("chronicle-2025-05-01.md")
}

func TestRunFailsOnCorruptState(t *testing.T) {
	cfg, _ := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.StateFile, []byte("{not json"), 0o600))
	g := New(cfg, WithClock(clock), WithNotifier(notify.Noop{}))
	t.Cleanup(g.Close)

	out, err := g.Run(context.Background(), Request{Since: cutoff})
	require.Error(t, err)
	require.Equal(t, metrics.OutcomeFailed, out.Status)
}

func TestRequestDefaults(t *testing.T) {
	g := &Generator{}
	now := time.Date(2025, 5, 3, 15, 30, 0, 0, time.UTC)
	req := g.withDefaults(Request{}, now)
	require.Equal(t, time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), req.Date)
	require.Equal(t, now.Add(-DefaultWindow), req.Since)
}

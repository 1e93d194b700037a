package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chronicle/internal/config"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

func TestJobDefinition(t *testing.T) {
	_, desc, err := JobDefinition(config.DaemonConfig{Schedule: "*/5 * * * *", At: "09:00"})
	require.NoError(t, err)
	require.Equal(t, "*/5 * * * *", desc)

	_, desc, err = JobDefinition(config.DaemonConfig{At: "18:30"})
	require.NoError(t, err)
	require.Equal(t, "daily at 18:30", desc)

	_, desc, err = JobDefinition(config.DaemonConfig{})
	require.NoError(t, err)
	require.Equal(t, "daily at "+DefaultDailyAt, desc)

	_, _, err = JobDefinition(config.DaemonConfig{At: "25:99"})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestSchedulerReschedulesInPlace(t *testing.T) {
	s, err := NewScheduler(func() {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.NoError(t, s.Schedule(config.DaemonConfig{At: "07:00"}))
	require.NoError(t, s.Schedule(config.DaemonConfig{Schedule: "0 * * * *"}))
	require.Equal(t, 1, s.Jobs())
}

func TestSchedulerRejectsBadCron(t *testing.T) {
	s, err := NewScheduler(func() {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	err = s.Schedule(config.DaemonConfig{Schedule: "not a cron"})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryDaemon))
}

func TestDaemonRunNowUsesActiveConfig(t *testing.T) {
	var seen atomic.Value
	run := func(_ context.Context, cfg *config.Config) error {
		seen.Store(cfg.OutputDir)
		return nil
	}
	cfg := config.Default()
	d, err := New(cfg, "", run)
	require.NoError(t, err)
	require.Equal(t, StatusStopped, d.Status())

	require.NoError(t, d.Start(context.Background()))
	require.Equal(t, StatusRunning, d.Status())

	next := config.Default()
	next.OutputDir = "/elsewhere"
	next.Daemon.At = "06:15"
	require.NoError(t, d.ReloadConfig(next))
	require.NoError(t, d.RunNow(context.Background()))
	require.Equal(t, "/elsewhere", seen.Load())
	require.EqualValues(t, 1, d.Runs())

	require.NoError(t, d.Stop(context.Background()))
	require.Equal(t, StatusStopped, d.Status())
}

func TestReloadConfigKeepsPreviousOnBadSchedule(t *testing.T) {
	cfg := config.Default()
	d, err := New(cfg, "", func(context.Context, *config.Config) error { return nil })
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	bad := config.Default()
	bad.Daemon.Schedule = "bogus"
	require.Error(t, d.ReloadConfig(bad))
	require.Same(t, cfg, d.Config())
}

func TestConfigFileChangeTriggersReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: ./a\n"), 0o600))

	var loads atomic.Int32
	loader := func(string) (*config.Config, error) {
		loads.Add(1)
		cfg := config.Default()
		cfg.OutputDir = "./b"
		return cfg, nil
	}

	d, err := New(config.Default(), path, func(context.Context, *config.Config) error { return nil },
		WithLoader(loader), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, d.Start(ctx))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	require.NoError(t, os.WriteFile(path, []byte("output_dir: ./b\n"), 0o600))
	require.Eventually(t, func() bool { return d.Config().OutputDir == "./b" }, 5*time.Second, 20*time.Millisecond)
	require.GreaterOrEqual(t, loads.Load(), int32(1))
}

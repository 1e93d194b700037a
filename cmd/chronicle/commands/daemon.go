package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/config"
	"git.home.luguber.info/inful/chronicle/internal/daemon"
	"git.home.luguber.info/inful/chronicle/internal/generate"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
)

const stopTimeout = 30 * time.Second

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	RunNow bool `name:"run-now" help:"Generate once immediately before waiting for the schedule"`
}

func (c *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, root.Config, generateOnce)
	if err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		return err
	}
	if c.RunNow {
		if err := d.RunNow(ctx); err != nil {
			slog.Error("Initial generation failed", logfields.Error(err))
		}
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping daemon")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := d.Stop(stopCtx); err != nil {
		return err
	}
	slog.Info("Daemon stopped", slog.Int64("runs", d.Runs()))
	return nil
}

// generateOnce runs one generation with today's date and the default window.
func generateOnce(ctx context.Context, cfg *config.Config) error {
	gen := generate.New(cfg)
	defer gen.Close()

	out, err := gen.Run(ctx, generate.Request{})
	if err != nil {
		return err
	}
	slog.Info("Generation complete",
		logfields.RunID(out.RunID),
		slog.String("status", string(out.Status)),
		logfields.Path(out.OutputPath),
		slog.Int("warnings", len(out.Warnings)))
	return nil
}

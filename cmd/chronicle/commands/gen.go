package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/engine"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/generate"
	"git.home.luguber.info/inful/chronicle/internal/metrics"
	"git.home.luguber.info/inful/chronicle/internal/renderer"
)

// GenCmd implements the 'gen' command.
type GenCmd struct {
	Date   string `help:"Report date (YYYY-MM-DD), defaults to today"`
	Since  string `help:"Only include activity after this RFC3339 time, defaults to 24h ago"`
	Only   string `help:"Comma separated kinds to collect: git, todos, notes"`
	DryRun bool   `name:"dry-run" help:"Print the chronicle without writing files or state"`
}

func (c *GenCmd) Run(g *Global, root *CLI) error {
	req, err := c.request()
	if err != nil {
		return err
	}
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen := generate.New(cfg)
	defer gen.Close()

	out, err := gen.Run(ctx, req)
	if err != nil {
		return err
	}
	return report(g, out)
}

func (c *GenCmd) request() (generate.Request, error) {
	var req generate.Request
	if c.Date != "" {
		d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(c.Date), time.Local)
		if err != nil {
			return req, ferrors.ValidationError("invalid --date, expected YYYY-MM-DD").
				WithCause(err).
				WithContext("value", c.Date).
				Build()
		}
		req.Date = d
	}
	if c.Since != "" {
		s, err := time.Parse(time.RFC3339, strings.TrimSpace(c.Since))
		if err != nil {
			return req, ferrors.ValidationError("invalid --since, expected RFC3339").
				WithCause(err).
				WithContext("value", c.Since).
				Build()
		}
		req.Since = s
	}
	kinds, err := engine.ParseKinds(c.Only)
	if err != nil {
		return req, err
	}
	req.Only = kinds
	req.DryRun = c.DryRun
	return req, nil
}

func report(g *Global, out generate.Outcome) error {
	for _, w := range out.Warnings {
		fmt.Fprintf(g.Stderr, "warning: %s\n", w)
	}
	switch out.Status {
	case metrics.OutcomeNoActivity:
		fmt.Fprintln(g.Stdout, "No activity to report.")
	case metrics.OutcomeDryRun:
		_, body, _, err := renderer.Split(out.Document)
		if err != nil {
			return err
		}
		return g.Printer().Print(body)
	case metrics.OutcomeWritten:
		stats := out.Chronicle.Stats()
		fmt.Fprintf(g.Stdout, "Chronicle written to %s\n", out.OutputPath)
		fmt.Fprintf(g.Stdout, "%d commits in %d repositories, %d new TODOs, %d completed, %d notes\n",
			stats.CommitCount, stats.RepoCount, stats.TodosNew, stats.TodosCompleted, stats.NotesCount)
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/config"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/history"
	"git.home.luguber.info/inful/chronicle/internal/renderer"
)

// ShowCmd groups the read-only output commands.
type ShowCmd struct {
	Latest  ShowLatestCmd  `cmd:"" help:"Print the most recent chronicle"`
	History ShowHistoryCmd `cmd:"" help:"List recorded runs"`
}

// ShowLatestCmd implements 'show latest'.
type ShowLatestCmd struct {
	Raw bool `help:"Print the file as written, without terminal styling"`
}

func (c *ShowLatestCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	path, err := renderer.Latest(cfg.OutputPath())
	if err != nil {
		return err
	}
	// #nosec G304 - path comes from the configured output directory
	data, err := os.ReadFile(path)
	if err != nil {
		return ferrors.FileSystemError("failed to read chronicle").WithCause(err).WithContext("path", path).Build()
	}

	_, body, had, err := renderer.Split(data)
	if err != nil {
		return err
	}
	if had {
		ok, err := renderer.Verify(data)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(g.Stderr, "warning: %s was edited after it was generated\n", path)
		}
	}

	if c.Raw {
		_, err = g.Stdout.Write(data)
		return err
	}
	return g.Printer().Print(body)
}

// ShowHistoryCmd implements 'show history'.
type ShowHistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to list" default:"10"`
}

func (c *ShowHistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return ferrors.ConfigError("run history is not enabled, set history.path in the configuration").Build()
	}
	store, err := history.Open(config.ResolvePath(cfg.History.Path))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(g.Stdout, "No runs recorded.")
		return nil
	}
	return g.Printer().Table(historyHeaders, historyRows(runs))
}

var historyHeaders = []string{"Started", "Date", "Duration", "Commits", "TODOs", "Notes", "Warnings", "Output"}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		output := r.OutputPath
		if output == "" {
			output = "-"
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Date,
			r.Duration.Round(time.Millisecond).String(),
			strconv.Itoa(r.Stats.CommitCount),
			fmt.Sprintf("+%d/✓%d", r.Stats.TodosNew, r.Stats.TodosCompleted),
			strconv.Itoa(r.Stats.NotesCount),
			warningSummary(r.Warnings),
			output,
		})
	}
	return rows
}

func warningSummary(ws []history.Warning) string {
	if len(ws) == 0 {
		return "0"
	}
	sources := make([]string, 0, len(ws))
	for _, w := range ws {
		sources = append(sources, w.Source)
	}
	return fmt.Sprintf("%d (%s)", len(ws), strings.Join(sources, ", "))
}

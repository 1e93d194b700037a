package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/chronicle/internal/config"
	"git.home.luguber.info/inful/chronicle/internal/display"
)

// Global carries the output streams shared by every command.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// NewGlobal returns the globals for a process writing to stdout and stderr.
func NewGlobal(stdout, stderr io.Writer) *Global {
	return &Global{Stdout: stdout, Stderr: stderr, Getenv: os.Getenv}
}

// Printer returns a Markdown printer for stdout, coloured when the terminal
// policy allows it.
func (g *Global) Printer() *display.Printer {
	return display.NewPrinter(g.Stdout, display.ColorEnabled(g.Getenv, display.IsTerminal(g.Stdout)))
}

// CLI is the command tree and its global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"chronicle.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	VersionFlag kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`
	Gen     GenCmd     `cmd:"" help:"Generate the chronicle for a day"`
	Show    ShowCmd    `cmd:"" help:"Show generated chronicles and run history"`
	State   StateCmd   `cmd:"" help:"Inspect or reset the persisted change state"`
	Daemon  DaemonCmd  `cmd:"" help:"Generate chronicles on a schedule"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply runs after flag parsing and installs the default logger.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(os.Stderr, config.LoggingConfig{}, c.Verbose)
	return nil
}

// LoadConfig reads the configuration and reinstalls the logger with its
// logging section.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	setupLogging(os.Stderr, cfg.Logging, c.Verbose)
	return cfg, nil
}

func setupLogging(w io.Writer, cfg config.LoggingConfig, verbose bool) {
	slog.SetDefault(slog.New(newLogHandler(w, cfg, verbose)))
}

func newLogHandler(w io.Writer, cfg config.LoggingConfig, verbose bool) slog.Handler {
	level := config.NormalizeLogLevel(cfg.Level).SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(cfg.Format) == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

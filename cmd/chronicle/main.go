package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/chronicle/cmd/chronicle/commands"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("chronicle"),
		kong.Description("Daily activity reports from git repositories, checklists and notes."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	globals := commands.NewGlobal(os.Stdout, os.Stderr)
	if err := kctx.Run(globals, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

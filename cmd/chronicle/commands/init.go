package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/chronicle/internal/config"
	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Path  string `help:"Where to write the configuration (defaults to --config)"`
	Force bool   `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := i.Path
	if path == "" {
		path = root.Config
	}
	return RunInit(g, path, i.Force)
}

// RunInit writes the default configuration and creates its output directory.
func RunInit(g *Global, configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Wrote configuration to %s\n", configPath)

	outputDir := config.Default().OutputPath()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return ferrors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", outputDir).
			Build()
	}
	fmt.Fprintf(g.Stdout, "Chronicles will be written to %s\n", outputDir)
	return nil
}

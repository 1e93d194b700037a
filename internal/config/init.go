package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

const configHeader = `# chronicle configuration
# Paths may use ${VAR} references and a leading ~ for the home directory.
`

// Init writes the default configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return ferrors.ConfigError("failed to marshal default config").WithCause(err).Build()
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.FileSystemError("failed to create config directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}

	// #nosec G306 - configuration is not secret
	if err := os.WriteFile(configPath, append([]byte(configHeader), data...), 0o644); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}

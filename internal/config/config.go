package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "chronicle.yaml"

// Config is the chronicle configuration file.
type Config struct {
	OutputDir string   `yaml:"output_dir"`
	StateFile string   `yaml:"state_file"`
	Repos     []string `yaml:"repos"`
	TodoFiles []string `yaml:"todo_files"`
	NotesDirs []string `yaml:"notes_dirs"`

	Limits  Limits        `yaml:"limits"`
	Display DisplayConfig `yaml:"display"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Daemon  DaemonConfig  `yaml:"daemon,omitempty"`
}

// Limits bounds collection and rendering.
type Limits struct {
	MaxCommits      int `yaml:"max_commits"`       // per branch walk
	MaxChangedFiles int `yaml:"max_changed_files"` // per branch walk
	MaxNoteFiles    int `yaml:"max_note_files"`    // across all notes directories
	MaxCharsPerItem int `yaml:"max_chars_per_item"`
}

type DisplayConfig struct {
	ShowAuthors bool `yaml:"show_authors"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// HistoryConfig enables the SQLite run history when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig enables the Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// NotifyConfig enables run notifications over NATS when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// DaemonConfig controls the scheduled mode. Schedule is a cron expression;
// At is a daily "HH:MM" time used when Schedule is empty.
type DaemonConfig struct {
	Schedule string `yaml:"schedule,omitempty"`
	At       string `yaml:"at,omitempty"`
}

// Load reads the configuration file, expanding ${VAR} references after
// loading .env files, and fills unset fields with defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		msg := "failed to read config file"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "configuration file not found, run 'chronicle init' to create one"
		}
		return nil, ferrors.ConfigError(msg).
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

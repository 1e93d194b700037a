package config

const (
	defaultOutputDir     = "./chronicles"
	defaultStateFile     = "./.chronicle-state.json"
	defaultNotifySubject = "chronicle.runs"
)

// Default returns the configuration written by Init.
func Default() *Config {
	return &Config{
		OutputDir: defaultOutputDir,
		StateFile: defaultStateFile,
		Repos:     []string{"."},
		TodoFiles: []string{},
		NotesDirs: []string{},
		Limits: Limits{
			MaxCommits:      50,
			MaxChangedFiles: 80,
			MaxNoteFiles:    30,
			MaxCharsPerItem: 2000,
		},
		Display: DisplayConfig{ShowAuthors: true},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}
}

// applyDefaults fills optional fields left empty by the file.
func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.Notify.NATSURL != "" && c.Notify.Subject == "" {
		c.Notify.Subject = defaultNotifySubject
	}
	c.Logging.Level = string(NormalizeLogLevel(c.Logging.Level))
	c.Logging.Format = string(NormalizeLogFormat(c.Logging.Format))
}

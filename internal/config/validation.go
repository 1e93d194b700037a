package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.StateFile) == "" {
		problems = append(problems, "state_file must not be empty")
	}
	limits := []struct {
		name  string
		value int
	}{
		{"limits.max_commits", c.Limits.MaxCommits},
		{"limits.max_changed_files", c.Limits.MaxChangedFiles},
		{"limits.max_note_files", c.Limits.MaxNoteFiles},
		{"limits.max_chars_per_item", c.Limits.MaxCharsPerItem},
	}
	for _, l := range limits {
		if l.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be greater than zero", l.name))
		}
	}
	problems = append(problems, c.duplicateSources()...)
	if c.Daemon.At != "" {
		if _, err := ParseDailyTime(c.Daemon.At); err != nil {
			problems = append(problems, fmt.Sprintf("daemon.at: %v", err))
		}
	}

	if len(problems) > 0 {
		return ferrors.ConfigError("invalid configuration").
			WithCause(errors.New(strings.Join(problems, "; "))).
			Build()
	}
	return nil
}

// duplicateSources reports resolved paths that appear in more than one source
// list, or twice in the same list.
func (c *Config) duplicateSources() []string {
	var problems []string
	seen := make(map[string]string)
	for _, group := range []struct {
		key   string
		paths []string
	}{
		{"repos", c.Repos},
		{"todo_files", c.TodoFiles},
		{"notes_dirs", c.NotesDirs},
	} {
		for _, p := range group.paths {
			if strings.TrimSpace(p) == "" {
				continue
			}
			id := ResolvePath(p)
			if prev, ok := seen[id]; ok {
				problems = append(problems, fmt.Sprintf("%s: %s is already listed in %s", group.key, p, prev))
				continue
			}
			seen[id] = group.key
		}
	}
	return problems
}

// ParseDailyTime parses an "HH:MM" time of day into a gocron AtTime.
func ParseDailyTime(s string) (gocron.AtTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return gocron.NewAtTime(uint(t.Hour()), uint(t.Minute()), 0), nil
}

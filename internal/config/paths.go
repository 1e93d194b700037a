package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath expands a leading ~ and returns the cleaned absolute path. The
// result is the source identity used in the state file.
func ResolvePath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// ResolvePaths applies ResolvePath to every element.
func ResolvePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, ResolvePath(p))
	}
	return out
}

// OutputPath is the resolved output directory.
func (c *Config) OutputPath() string { return ResolvePath(c.OutputDir) }

// StatePath is the resolved state file location.
func (c *Config) StatePath() string { return ResolvePath(c.StateFile) }

package collect

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/models"
)

// ScanNotes lists markdown files directly inside dir modified at or after
// since, in name order, each with an excerpt of at most maxChars characters.
// Subdirectories are not descended into.
func ScanNotes(dir string, since time.Time, maxChars int) ([]models.Note, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, ferrors.CollectorError("notes directory does not exist").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.CollectorError("notes path is not a directory").
			WithContext("path", dir).
			Build()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ferrors.CollectorError("cannot list notes directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	var notes []models.Note
	for _, entry := range entries {
		if entry.IsDir() || !isMarkdown(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		modified := fi.ModTime().UTC()
		if modified.Before(since) {
			continue
		}

		// #nosec G304 - paths come from the user's own configuration
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ferrors.CollectorError("cannot read note file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}

		notes = append(notes, models.Note{
			Path:       path,
			ModifiedAt: modified,
			Excerpt:    Excerpt(string(data), maxChars),
		})
	}
	return notes, nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "md", "markdown":
		return true
	default:
		return false
	}
}

// Excerpt shortens content to at most maxChars characters. Longer content is
// cut after the last full stop, else before the last newline, else marked with
// "...". The result is trimmed.
func Excerpt(content string, maxChars int) string {
	runes := []rune(content)
	if maxChars <= 0 || len(runes) <= maxChars {
		return strings.TrimSpace(content)
	}

	cut := string(runes[:maxChars])
	var out string
	if i := strings.LastIndexByte(cut, '.'); i >= 0 {
		out = cut[:i+1]
	} else if i := strings.LastIndexByte(cut, '\n'); i >= 0 {
		out = cut[:i]
	} else {
		out = cut + "..."
	}
	return strings.TrimSpace(out)
}

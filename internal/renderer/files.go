package renderer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

const (
	filePrefix = "chronicle-"
	fileSuffix = ".md"
)

// FileName is the report file name for a calendar day.
func FileName(date time.Time) string {
	return filePrefix + date.Format(time.DateOnly) + fileSuffix
}

// WriteFile writes doc as the report for date into dir, creating dir as
// needed, and returns the file path. An existing report for the same day is
// replaced.
func WriteFile(dir string, date time.Time, doc []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ferrors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	path := filepath.Join(dir, FileName(date))
	tmp := path + ".tmp"
	// #nosec G306 - reports are meant to be shared
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return "", ferrors.FileSystemError("failed to write chronicle").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", ferrors.FileSystemError("failed to write chronicle").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return path, nil
}

// Latest returns the path of the newest report in dir, by file name.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ferrors.NewError(ferrors.CategoryNotFound, "output directory does not exist").
				WithContext("path", dir).
				Build()
		}
		return "", ferrors.FileSystemError("failed to list output directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", ferrors.NewError(ferrors.CategoryNotFound, "no chronicles found").
			WithContext("path", dir).
			Build()
	}
	slices.Sort(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

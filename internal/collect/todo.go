package collect

import (
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// TodoFile is the raw content of a checklist file.
type TodoFile struct {
	Path         string
	Content      string
	LastModified time.Time
}

// ReadTodoFile reads a checklist file. A missing or unreadable file is a
// collector error.
func ReadTodoFile(path string) (TodoFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return TodoFile{}, ferrors.CollectorError("cannot read todo file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if info.IsDir() {
		return TodoFile{}, ferrors.CollectorError("todo path is a directory").
			WithContext("path", path).
			Build()
	}

	// #nosec G304 - paths come from the user's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return TodoFile{}, ferrors.CollectorError("cannot read todo file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return TodoFile{Path: path, Content: string(data), LastModified: info.ModTime().UTC()}, nil
}

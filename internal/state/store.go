package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
)

// Store reads and writes the state file at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store for the given state file path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether the state file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the state file. A missing file yields New(); unreadable or
// malformed content yields a fatal state error.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return State{}, ferrors.StateError("failed to read state file").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, ferrors.StateError("failed to parse state file").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	if st.Version == "" {
		st.Version = CurrentVersion
	}
	if st.Sources == nil {
		st.Sources = Sources{}
	}
	return st, nil
}

// Save stamps last_updated and writes the state atomically through a
// temporary file in the same directory.
func (s *Store) Save(st State) error {
	st.Version = CurrentVersion
	st.LastUpdated = s.now().UTC()
	if st.Sources == nil {
		st.Sources = Sources{}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return ferrors.StateError("failed to marshal state").WithCause(err).Build()
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.StateError("failed to create state directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return ferrors.StateError("failed to write temporary state file").
			WithCause(err).
			WithContext("path", tempPath).
			Build()
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return ferrors.StateError("failed to replace state file").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	return nil
}

// Reset deletes the state file. It reports whether a file was removed.
func (s *Store) Reset() (bool, error) {
	err := os.Remove(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, ferrors.StateError("failed to delete state file").
		WithCause(err).
		WithContext("path", s.path).
		Build()
}

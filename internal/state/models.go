package state

import (
	"maps"
	"slices"
	"time"
)

// CurrentVersion is the state file format version written by Save.
const CurrentVersion = "1.0"

// SourceKind discriminates the SourceRecord variants.
type SourceKind string

const (
	KindGit   SourceKind = "git"
	KindTodo  SourceKind = "todo"
	KindNotes SourceKind = "notes"
)

// SourceRecord is one of GitRecord, TodoRecord or NotesRecord.
type SourceRecord interface {
	Kind() SourceKind
	Checked() time.Time
	clone() SourceRecord
}

// BranchRecord is the last observation of a single branch.
type BranchRecord struct {
	LastCommit string     `json:"last_commit"`
	LastSeen   time.Time  `json:"last_seen"`
	FirstSeen  *time.Time `json:"first_seen"`
}

// GitRecord is the prior state of a repository source.
type GitRecord struct {
	LastChecked   time.Time               `json:"last_checked"`
	DefaultBranch string                  `json:"default_branch"`
	Branches      map[string]BranchRecord `json:"branches"`
}

func (GitRecord) Kind() SourceKind     { return KindGit }
func (r GitRecord) Checked() time.Time { return r.LastChecked }

func (r GitRecord) clone() SourceRecord {
	out := r
	out.Branches = make(map[string]BranchRecord, len(r.Branches))
	for name, b := range r.Branches {
		if b.FirstSeen != nil {
			fs := *b.FirstSeen
			b.FirstSeen = &fs
		}
		out.Branches[name] = b
	}
	return out
}

// TodoRecord is the prior state of a checklist file: one hash per item, in file order.
type TodoRecord struct {
	LastChecked  time.Time `json:"last_checked"`
	LastModified time.Time `json:"last_modified"`
	ItemHashes   []string  `json:"item_hashes"`
}

func (TodoRecord) Kind() SourceKind     { return KindTodo }
func (r TodoRecord) Checked() time.Time { return r.LastChecked }

func (r TodoRecord) clone() SourceRecord {
	out := r
	out.ItemHashes = slices.Clone(r.ItemHashes)
	return out
}

// NotesRecord is the prior state of a notes directory: file path to modification time.
type NotesRecord struct {
	LastChecked time.Time            `json:"last_checked"`
	Files       map[string]time.Time `json:"files"`
}

func (NotesRecord) Kind() SourceKind     { return KindNotes }
func (r NotesRecord) Checked() time.Time { return r.LastChecked }

func (r NotesRecord) clone() SourceRecord {
	out := r
	out.Files = maps.Clone(r.Files)
	if out.Files == nil {
		out.Files = map[string]time.Time{}
	}
	return out
}

// State is the full persisted record.
type State struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Sources     Sources   `json:"sources"`
}

// New returns the empty first-run state.
func New() State {
	return State{
		Version:     CurrentVersion,
		LastUpdated: time.Now().UTC(),
		Sources:     Sources{},
	}
}

// Clone returns a deep copy; mutating the copy never affects s.
func (s State) Clone() State {
	out := s
	out.Sources = make(Sources, len(s.Sources))
	for id, rec := range s.Sources {
		out.Sources[id] = rec.clone()
	}
	return out
}

// Source returns the record stored for a source identity.
func (s State) Source(id string) (SourceRecord, bool) {
	rec, ok := s.Sources[id]
	return rec, ok
}

// Put replaces the record of a source identity wholesale.
func (s *State) Put(id string, rec SourceRecord) {
	if s.Sources == nil {
		s.Sources = Sources{}
	}
	s.Sources[id] = rec
}

// Lookup returns the record of a source when it exists and has the requested
// variant. A record of a different kind under the same identity is treated as
// absent.
func Lookup[T SourceRecord](s State, id string) (T, bool) {
	var zero T
	rec, ok := s.Sources[id]
	if !ok {
		return zero, false
	}
	typed, ok := rec.(T)
	return typed, ok
}

package state

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sources maps source identity to its tagged record.
type Sources map[string]SourceRecord

type gitWire struct {
	Type SourceKind `json:"type"`
	GitRecord
}

type todoWire struct {
	Type SourceKind `json:"type"`
	TodoRecord
}

type notesWire struct {
	Type SourceKind `json:"type"`
	NotesRecord
}

// MarshalJSON writes each record with its "type" discriminator.
func (s Sources) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s))
	for id, rec := range s {
		switch r := rec.(type) {
		case GitRecord:
			if r.Branches == nil {
				r.Branches = map[string]BranchRecord{}
			}
			out[id] = gitWire{Type: KindGit, GitRecord: r}
		case TodoRecord:
			if r.ItemHashes == nil {
				r.ItemHashes = []string{}
			}
			out[id] = todoWire{Type: KindTodo, TodoRecord: r}
		case NotesRecord:
			if r.Files == nil {
				r.Files = map[string]time.Time{}
			}
			out[id] = notesWire{Type: KindNotes, NotesRecord: r}
		case nil:
			return nil, fmt.Errorf("source %q has no record", id)
		default:
			return nil, fmt.Errorf("source %q has unsupported record %T", id, rec)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes records by their "type" discriminator. Unknown types
// are an error.
func (s *Sources) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Sources, len(raw))
	for id, msg := range raw {
		var head struct {
			Type SourceKind `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("source %q: %w", id, err)
		}
		switch head.Type {
		case KindGit:
			var w gitWire
			if err := json.Unmarshal(msg, &w); err != nil {
				return fmt.Errorf("source %q: %w", id, err)
			}
			if w.Branches == nil {
				w.Branches = map[string]BranchRecord{}
			}
			out[id] = w.GitRecord
		case KindTodo:
			var w todoWire
			if err := json.Unmarshal(msg, &w); err != nil {
				return fmt.Errorf("source %q: %w", id, err)
			}
			out[id] = w.TodoRecord
		case KindNotes:
			var w notesWire
			if err := json.Unmarshal(msg, &w); err != nil {
				return fmt.Errorf("source %q: %w", id, err)
			}
			if w.Files == nil {
				w.Files = map[string]time.Time{}
			}
			out[id] = w.NotesRecord
		default:
			return fmt.Errorf("source %q: unknown record type %q", id, head.Type)
		}
	}
	*s = out
	return nil
}

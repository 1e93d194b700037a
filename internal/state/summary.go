package state

import (
	"slices"
	"strings"
	"time"
)

// SourceSummary is a one-line description of a stored source record.
type SourceSummary struct {
	ID          string
	Kind        SourceKind
	LastChecked time.Time
	Items       int
}

// Summaries lists every stored source ordered by identity.
func (s State) Summaries() []SourceSummary {
	out := make([]SourceSummary, 0, len(s.Sources))
	for id, rec := range s.Sources {
		sum := SourceSummary{ID: id, Kind: rec.Kind(), LastChecked: rec.Checked()}
		switch r := rec.(type) {
		case GitRecord:
			sum.Items = len(r.Branches)
		case TodoRecord:
			sum.Items = len(r.ItemHashes)
		case NotesRecord:
			sum.Items = len(r.Files)
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b SourceSummary) int { return strings.Compare(a.ID, b.ID) })
	return out
}

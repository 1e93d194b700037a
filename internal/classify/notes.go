package classify

import (
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/state"
)

// ClassifyNotes classifies the eligible files of one notes directory. Files
// already present in the prior record are Modified, all others New.
//
// The next record maps every observed file to its modification time and
// replaces the prior one wholesale.
func ClassifyNotes(prior *state.NotesRecord, observed []models.Note, now time.Time) ([]models.Note, state.NotesRecord) {
	next := state.NotesRecord{
		LastChecked: now,
		Files:       make(map[string]time.Time, len(observed)),
	}
	out := make([]models.Note, 0, len(observed))

	for _, n := range observed {
		n.Change = models.ChangeNew
		if prior != nil {
			if _, known := prior.Files[n.Path]; known {
				n.Change = models.ChangeModified
			}
		}
		next.Files[n.Path] = n.ModifiedAt
		out = append(out, n)
	}
	return out, next
}

// MergeNotes sorts notes from all directories newest first and keeps at most
// limit of them. A limit of zero or less keeps everything. Ties are ordered by
// path.
func MergeNotes(notes []models.Note, limit int) []models.Note {
	merged := slices.Clone(notes)
	slices.SortStableFunc(merged, func(a, b models.Note) int {
		if c := b.ModifiedAt.Compare(a.ModifiedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

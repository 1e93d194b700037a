package models

import "time"

// Note is a note file modified since the cutoff.
type Note struct {
	Path       string     `json:"path"`
	Change     ChangeKind `json:"change"`
	ModifiedAt time.Time  `json:"modified_at"`
	Excerpt    string     `json:"excerpt"`
}

package models

// ChangeKind is the classification outcome of an observed entity relative to
// the previous run's state.
type ChangeKind string

const (
	ChangeNew       ChangeKind = "new"
	ChangeModified  ChangeKind = "modified"
	ChangeUnchanged ChangeKind = "unchanged"
)

// Reportable reports whether an entity with this change kind is surfaced.
func (c ChangeKind) Reportable() bool {
	return c == ChangeNew || c == ChangeModified
}

// Package state persists the previous run's view of every configured source.
//
// The State value is keyed by source identity (the canonical path of a
// repository, todo file or notes directory) and holds one tagged SourceRecord per
// source: GitRecord, TodoRecord or NotesRecord. The JSON form uses a "type"
// discriminator field.
//
// A State is loaded once at run start, copied by the run orchestrator, updated
// per source in memory and written back atomically at run end. A missing file is
// the empty first-run state; a malformed file is a fatal state error.
package state

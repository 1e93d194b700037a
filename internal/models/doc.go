// Package models defines the observed activity entities (commits, branches,
// repositories, todos, notes) and the Chronicle aggregate that the renderer
// consumes. Every classified entity carries a ChangeKind relative to the
// previous run.
package models

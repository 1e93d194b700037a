// Package history records every chronicle run in a SQLite database so that
// `chronicle show history` can list past generations.
package history

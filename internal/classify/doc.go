// Package classify decides, per observed item, whether it is New, Modified or
// Unchanged relative to the previous run's record, and builds the record for
// the next run.
//
// Classifiers are pure: they receive the prior record by value (or nil on
// first sight of a source) and return a freshly allocated next record. The
// prior record is never modified, so a failed run leaves the loaded state
// intact.
package classify

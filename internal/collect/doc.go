// Package collect observes the configured sources and produces unclassified
// snapshots: branches with their commits for repositories, raw content for
// checklist files, and eligible files with excerpts for notes directories.
//
// Every failure is returned as a recoverable classified error carrying the
// source path so the engine can skip the source and keep going.
package collect

// Package errors provides the classified error primitives used across chronicle.
//
// Every failure that leaves a package carries a category (config, state,
// collector, git, ...) and a severity. The run orchestrator uses the category to
// decide whether a failure is recoverable per source, and the CLI adapter uses it
// to pick the process exit code.
//
// Example usage:
//
//	err := errors.CollectorError("cannot read todo file").
//		WithCause(readErr).
//		WithContext("path", path).
//		Build()
package errors

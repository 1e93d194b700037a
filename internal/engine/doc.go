// Package engine runs one chronicle generation: it walks the configured
// sources kind by kind (git, todos, notes), classifies each against the
// previous state and assembles the report together with the next state.
//
// A failing source is reported as a Warning and skipped; its prior record is
// carried into the next state unchanged. The caller's prior state is never
// mutated.
package engine

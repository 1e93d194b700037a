// Package generate runs one complete chronicle generation: load state, run
// the engine, write and persist, then record history, metrics and the run
// notification. The CLI `gen` command and the daemon share it.
package generate

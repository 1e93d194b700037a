// Package metrics defines the Recorder used to observe chronicle runs, with a
// Prometheus implementation that is exported as a node-exporter textfile
// after every run and a no-op default.
package metrics

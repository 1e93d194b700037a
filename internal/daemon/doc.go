// Package daemon runs chronicle generations on a schedule and reloads the
// configuration when its file changes on disk.
package daemon

// Package notify publishes a JSON summary of each written chronicle to a NATS
// subject so other tools can react to new reports.
package notify

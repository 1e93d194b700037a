package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/chronicle/internal/foundation/errors"
	"git.home.luguber.info/inful/chronicle/internal/logfields"
	"git.home.luguber.info/inful/chronicle/internal/models"
	"git.home.luguber.info/inful/chronicle/internal/retry"
)

const flushTimeout = 5 * time.Second

// RunSummary is the message published after a run wrote a chronicle.
type RunSummary struct {
	RunID      string       `json:"run_id"`
	Date       string       `json:"date"` // YYYY-MM-DD
	Since      time.Time    `json:"since"`
	OutputPath string       `json:"output_path"`
	Stats      models.Stats `json:"stats"`
	Warnings   int          `json:"warnings"`
}

// Encode renders the summary as the published payload.
func (s RunSummary) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, ferrors.NotifyError("failed to marshal run summary").WithCause(err).Build()
	}
	return data, nil
}

// Notifier delivers run summaries.
type Notifier interface {
	Notify(ctx context.Context, summary RunSummary) error
	Close()
}

// Noop discards every summary. It is used when notify.nats_url is empty.
type Noop struct{}

func (Noop) Notify(context.Context, RunSummary) error { return nil }
func (Noop) Close()                                   {}

// NATSNotifier publishes summaries on a core NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	policy  retry.Policy
}

// NewNATSNotifier connects to url. The connection is kept until Close.
// Failed publishes are retried according to policy.
func NewNATSNotifier(url, subject string, policy retry.Policy) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("chronicle"))
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Debug("NATS notifier connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSNotifier{conn: conn, subject: subject, policy: policy}, nil
}

// Notify publishes the summary and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, summary RunSummary) error {
	data, err := summary.Encode()
	if err != nil {
		return err
	}
	err = n.policy.Do(ctx, "nats publish", func() error {
		return n.publish(ctx, data)
	})
	if err != nil {
		return err
	}

	slog.Debug("Published run summary", logfields.RunID(summary.RunID), slog.String("subject", n.subject))
	return nil
}

func (n *NATSNotifier) publish(ctx context.Context, data []byte) error {
	if err := n.conn.Publish(n.subject, data); err != nil {
		return ferrors.NotifyError("failed to publish run summary").
			WithCause(err).
			WithContext("subject", n.subject).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return ferrors.NotifyError("failed to flush NATS connection").
			WithCause(err).
			WithContext("subject", n.subject).
			Build()
	}
	return nil
}

// Close closes the NATS connection.
func (n *NATSNotifier) Close() {
	n.conn.Close()
}

// New returns a NATSNotifier when url is set and Noop otherwise.
func New(url, subject string) (Notifier, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSNotifier(url, subject, retry.DefaultPolicy())
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/internal/model"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
	"github.com/hashchat-ai/ledger-assistant/pkg/metrics"
)

const (
	// StreamName is the name of the audit stream.
	StreamName = "LEDGER_AUDIT"

	// SubjectPrefix is the prefix for all audit subjects.
	SubjectPrefix = "ledger.audit"
)

// Publisher writes operation audit events to JetStream. A nil Publisher is
// valid and drops everything, so auditing stays optional.
type Publisher struct {
	client *Client
	logger *logger.Logger
}

// NewPublisher creates an audit publisher.
func NewPublisher(client *Client, log *logger.Logger) *Publisher {
	return &Publisher{client: client, logger: log}
}

// EnsureStream ensures the audit stream exists with proper configuration.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	// Check if stream exists
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	// Create stream
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Executed ledger operations",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// Subject returns the subject for an audit event.
func Subject(kind model.OperationKind, outcome string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, kind, outcome)
}

// Publish writes an audit event. Failures are logged and counted, never
// returned; the operation already happened.
func (p *Publisher) Publish(ctx context.Context, event *model.AuditEvent) {
	if p == nil || p.client == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		metrics.AuditPublishErrors.Inc()
		p.logger.Error("failed to marshal audit event", zap.Error(err))
		return
	}

	if _, err := p.client.JetStream().Publish(ctx, Subject(event.Kind, event.Outcome), data); err != nil {
		metrics.AuditPublishErrors.Inc()
		p.logger.Error("failed to publish audit event",
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}

// Package kafka publishes audit reports to a Kafka topic. Consumers are the
// promotion-gate workflow and anything else that needs the verdict stream;
// the report row in Postgres remains the queryable source.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"dealaudit/internal/audit"
)

// Publisher produces one record per generated report, keyed by session ID so
// re-audits of a session land in the same partition in order.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// New constructs a Kafka report publisher over an existing client.
func New(client *kgo.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Publish produces the report synchronously. A produce failure is returned to
// the caller; the report is already persisted by then, so the caller decides
// whether the event loss is fatal.
func (p *Publisher) Publish(ctx context.Context, report audit.AuditReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal audit report: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(report.SessionID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit report: %w", err)
	}
	return nil
}

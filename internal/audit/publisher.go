package audit

import "context"

// Publisher announces generated reports so the listing-promotion workflow can
// gate on them without polling the report log.
type Publisher interface {
	Publish(ctx context.Context, report AuditReport) error
}

// NoopPublisher satisfies Publisher when no broker is configured (dev mode,
// CLI runs).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, AuditReport) error { return nil }

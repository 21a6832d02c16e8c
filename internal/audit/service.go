package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"dealaudit/internal/audit/metrics"
	"dealaudit/internal/records"
	"dealaudit/internal/triangulate"
	"dealaudit/pkg/domain"
)

// Store is the subset of the report log the service needs. Declared here so
// the service depends on behavior, not on the store package.
type Store interface {
	Append(ctx context.Context, report AuditReport) error
}

// lookupConcurrency bounds the fan-out against the parcel API. Triangulation
// itself is pure; the limit exists for the upstream's sake.
const lookupConcurrency = 8

// Service runs the full audit for a session: corroboration lookups,
// per-listing triangulation, aggregation, persistence, and the report event.
type Service struct {
	source    records.Source
	store     Store
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	scoring   triangulate.Policy
	policy    Policy
	tracer    trace.Tracer
}

// NewService constructs the audit service with its dependencies.
func NewService(source records.Source, store Store, publisher Publisher, m *metrics.Metrics, logger *slog.Logger, scoring triangulate.Policy, policy Policy) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("records source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		scoring:   scoring,
		policy:    policy,
		tracer:    otel.Tracer("dealaudit/audit"),
	}, nil
}

// Run audits one session end to end and returns the persisted report with
// the per-listing verdicts. Triangulation is independent per listing and runs
// in parallel; aggregation is a barrier over all results.
func (s *Service) Run(ctx context.Context, session Session) (*SessionResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "audit.session",
		trace.WithAttributes(
			attribute.String("session.id", session.ID.String()),
			attribute.Int("session.listings", len(session.Listings)),
		))
	defer span.End()

	if session.ID.IsNil() {
		return nil, &InvalidSessionError{Reason: "missing session id"}
	}

	integrities := make([]triangulate.DataIntegrity, len(session.Listings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, l := range session.Listings {
		g.Go(func() error {
			rec, err := s.source.Lookup(gctx, l.Address)
			if err != nil && !errors.Is(err, records.ErrNoRecord) {
				// Lookup failures degrade to "no corroboration": the listing
				// is not penalized for data the pipeline could not fetch.
				s.logger.Warn("corroboration lookup failed",
					"session_id", session.ID.String(),
					"address", l.Address,
					"error", err)
				s.metrics.IncrementLookupFailure()
				rec = nil
			}
			integrities[i] = triangulate.Triangulate(l, rec, s.scoring)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("triangulate session %s: %w", session.ID, err)
	}

	report, err := Aggregate(session, integrities, s.scoring, s.policy, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	report.ID = domain.NewReportID()

	if err := s.store.Append(ctx, *report); err != nil {
		return nil, fmt.Errorf("persist audit report: %w", err)
	}

	// The report row is the source of truth; a lost event only delays the
	// promotion gate until its next reconciliation.
	if err := s.publisher.Publish(ctx, *report); err != nil {
		s.logger.Error("publish audit report failed",
			"report_id", report.ID.String(),
			"session_id", session.ID.String(),
			"error", err)
	}

	s.metrics.IncrementSession(report.Pass)
	for _, alert := range report.Alerts {
		s.metrics.IncrementAlert(string(alert.Severity))
	}
	s.metrics.ObserveAuditDuration(time.Since(start))

	s.logger.Info("session audited",
		"session_id", session.ID.String(),
		"report_id", report.ID.String(),
		"overall_score", report.OverallScore,
		"pass", report.Pass,
		"alerts", report.AlertsCount,
		"total_deals", report.TotalDeals)

	verdicts := make([]ListingVerdict, len(session.Listings))
	for i, l := range session.Listings {
		verdicts[i] = ListingVerdict{Listing: l, Integrity: integrities[i]}
	}
	return &SessionResult{Report: report, Verdicts: verdicts}, nil
}

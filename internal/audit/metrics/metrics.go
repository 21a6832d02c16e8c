package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit module.
type Metrics struct {
	// Sessions audited by verdict
	SessionsAudited *prometheus.CounterVec

	// Alerts generated by severity
	AlertsGenerated *prometheus.CounterVec

	// Full audit run latency (lookups + triangulation + aggregation)
	AuditDuration prometheus.Histogram

	// Corroborating-source lookups that failed and degraded to
	// "no corroboration"
	LookupFailures prometheus.Counter
}

// New creates a new Metrics instance with all audit module metrics registered.
func New() *Metrics {
	return &Metrics{
		SessionsAudited: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealaudit_sessions_audited_total",
			Help: "Total scrape sessions audited by verdict",
		}, []string{"verdict"}), // verdict: "pass", "fail"

		AlertsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealaudit_alerts_generated_total",
			Help: "Total audit alerts generated by severity",
		}, []string{"severity"}),

		AuditDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealaudit_session_audit_duration_seconds",
			Help:    "Duration of a full session audit including corroboration lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		LookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealaudit_corroboration_lookup_failures_total",
			Help: "Total corroborating-source lookups that failed",
		}),
	}
}

// IncrementSession records an audited session verdict.
func (m *Metrics) IncrementSession(pass bool) {
	if m != nil {
		verdict := "fail"
		if pass {
			verdict = "pass"
		}
		m.SessionsAudited.WithLabelValues(verdict).Inc()
	}
}

// IncrementAlert records one generated alert.
func (m *Metrics) IncrementAlert(severity string) {
	if m != nil {
		m.AlertsGenerated.WithLabelValues(severity).Inc()
	}
}

// ObserveAuditDuration records the duration of a full session audit.
func (m *Metrics) ObserveAuditDuration(d time.Duration) {
	if m != nil {
		m.AuditDuration.Observe(d.Seconds())
	}
}

// IncrementLookupFailure records a failed corroborating-source lookup.
func (m *Metrics) IncrementLookupFailure() {
	if m != nil {
		m.LookupFailures.Inc()
	}
}

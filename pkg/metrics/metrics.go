package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records storefront engine activity. A nil *Metrics is a no-op.
type Metrics struct {
	checkoutPhase  *prometheus.CounterVec
	syncFailures   *prometheus.CounterVec
	migratedItems  *prometheus.CounterVec
	migrations     *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	sessions       prometheus.Gauge
	jobRuns        *prometheus.HistogramVec
}

// New registers the storefront metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	checkoutPhase := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_phase_total",
		Help: "Checkout phase outcomes (created, rejected, verified, verify_failed, dismissed, failed, in_flight).",
	}, []string{"phase"})
	syncFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_store_sync_failures_total",
		Help: "Remote store operations that failed and left local state unchanged.",
	}, []string{"store", "op"})
	migratedItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_guest_migration_items_total",
		Help: "Guest items pushed to the server on sign-in, by outcome.",
	}, []string{"store", "outcome"})
	migrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_schema_migrations_total",
		Help: "Slot store schema migration runs by outcome.",
	}, []string{"outcome"})
	backendLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_seconds",
		Help:    "Latency of commerce backend calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Browsing sessions currently held in memory.",
	})
	jobRuns := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_housekeeping_job_seconds",
		Help:    "Duration of housekeeping job runs in seconds, by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job", "outcome"})
	reg.MustRegister(checkoutPhase, syncFailures, migratedItems, migrations, backendLatency, sessions, jobRuns)
	return &Metrics{
		checkoutPhase:  checkoutPhase,
		syncFailures:   syncFailures,
		migratedItems:  migratedItems,
		migrations:     migrations,
		backendLatency: backendLatency,
		sessions:       sessions,
		jobRuns:        jobRuns,
	}
}

// CheckoutPhase counts one checkout phase outcome.
func (m *Metrics) CheckoutPhase(phase string) {
	if m == nil || m.checkoutPhase == nil {
		return
	}
	m.checkoutPhase.WithLabelValues(normalizeLabel(phase)).Inc()
}

// SyncFailure counts a failed remote store operation.
func (m *Metrics) SyncFailure(store, op string) {
	if m == nil || m.syncFailures == nil {
		return
	}
	m.syncFailures.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// MigratedItem counts one guest item pushed on sign-in.
func (m *Metrics) MigratedItem(store string, ok bool) {
	if m == nil || m.migratedItems == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.migratedItems.WithLabelValues(normalizeLabel(store), outcome).Inc()
}

// MigrationOutcome counts a schema migration run.
func (m *Metrics) MigrationOutcome(outcome string) {
	if m == nil || m.migrations == nil {
		return
	}
	m.migrations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveBackend records the latency of one backend call.
func (m *Metrics) ObserveBackend(op string, duration time.Duration, err error) {
	if m == nil || m.backendLatency == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendLatency.WithLabelValues(normalizeLabel(op), outcome).Observe(duration.Seconds())
}

// ObserveJob records one housekeeping job run.
func (m *Metrics) ObserveJob(job string, duration time.Duration, err error) {
	if m == nil || m.jobRuns == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.jobRuns.WithLabelValues(normalizeLabel(job), outcome).Observe(duration.Seconds())
}

// SetSessions reports the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Fiscal year lifecycle metrics
	FiscalYearOperations *prometheus.CounterVec
	FiscalYearDuration   *prometheus.HistogramVec
	ClosingEntries       prometheus.Counter
	OpeningEntries       prometheus.Counter
	EntryLines           *prometheus.HistogramVec
	InventoryCarried     prometheus.Counter
	LockContention       *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
	OutboxPublished  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FiscalYearOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_fiscal_year_operations_total",
				Help: "Fiscal year lifecycle operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		FiscalYearDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yearend_fiscal_year_operation_duration_seconds",
				Help:    "Duration of fiscal year lifecycle operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ClosingEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "yearend_closing_entries_total",
			Help: "Total number of closing entries posted",
		}),
		OpeningEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "yearend_opening_entries_total",
			Help: "Total number of opening entries posted",
		}),
		EntryLines: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yearend_generated_entry_lines",
				Help:    "Number of lines in generated closing and opening entries",
				Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"reference_type"},
		),
		InventoryCarried: factory.NewCounter(prometheus.CounterOpts{
			Name: "yearend_inventory_records_carried_total",
			Help: "Total inventory records reassigned to a new fiscal year",
		}),
		LockContention: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_lock_contention_total",
				Help: "Lifecycle operations rejected because the fiscal year was locked",
			},
			[]string{"operation"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yearend_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "yearend_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Database metrics
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yearend_outbox_events_published_total",
				Help: "Outbox events published by event type",
			},
			[]string{"event_type"},
		),
	}
}

// ObserveOperation records the outcome and duration of a lifecycle operation.
// Safe to call on a nil receiver.
func (m *Metrics) ObserveOperation(operation string, started time.Time, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	m.FiscalYearOperations.WithLabelValues(operation, outcome).Inc()
	m.FiscalYearDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

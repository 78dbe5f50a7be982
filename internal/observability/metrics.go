package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Statement outcomes used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeNoRows     = "no_rows"
	OutcomeConstraint = "constraint_violation"
	OutcomeError      = "error"
)

// Metrics contains all Prometheus metrics for the records service.
// Metrics are organized by subsystem: repository statements, HTTP requests,
// and the connection pool. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// StatementsTotal counts executed statements, labeled by table, operation, and outcome.
	StatementsTotal *prometheus.CounterVec

	// StatementDuration observes statement duration in seconds, labeled by table and operation.
	StatementDuration *prometheus.HistogramVec

	// RowsAffected counts rows changed by insert, update, and delete statements.
	RowsAffected *prometheus.CounterVec

	// RowsReturned observes the number of rows returned per query, labeled by table.
	RowsReturned *prometheus.HistogramVec

	// ConstraintViolations counts unique-key rejections, labeled by table.
	ConstraintViolations *prometheus.CounterVec

	// HTTPRequestsTotal counts HTTP requests, labeled by method, route, and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds, labeled by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRateLimited counts requests rejected by the rate limiter.
	HTTPRateLimited prometheus.Counter

	// PoolConnections reports connection pool sizes, labeled by state (acquired, idle, total).
	PoolConnections *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance registered with the default
// Prometheus registry. The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a Metrics instance registered with reg.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Repository statements
		StatementsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "statements_total",
			Help:      "Total number of statements executed",
		}, []string{"table", "operation", "outcome"}),
		StatementDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "statement_duration_seconds",
			Help:      "Duration of statements in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"table", "operation"}),
		RowsAffected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "rows_affected_total",
			Help:      "Total number of rows changed by statements",
		}, []string{"table", "operation"}),
		RowsReturned: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "rows_returned",
			Help:      "Number of rows returned per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000, 5000},
		}, []string{"table"}),
		ConstraintViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "constraint_violations_total",
			Help:      "Total number of rows rejected by a unique key",
		}, []string{"table"}),

		// HTTP
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of HTTP requests rejected by the rate limiter",
		}),

		// Pool
		PoolConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      "connections",
			Help:      "Number of database connections by state",
		}, []string{"state"}),
	}
}

// RecordStatement records one executed statement.
func (m *Metrics) RecordStatement(table, operation, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.StatementsTotal.WithLabelValues(table, operation, outcome).Inc()
	m.StatementDuration.WithLabelValues(table, operation).Observe(durationSeconds)
}

// RecordRowsAffected records rows changed by a statement.
func (m *Metrics) RecordRowsAffected(table, operation string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsAffected.WithLabelValues(table, operation).Add(float64(n))
}

// RecordRowsReturned records the size of a query result.
func (m *Metrics) RecordRowsReturned(table string, n int) {
	if m == nil {
		return
	}
	m.RowsReturned.WithLabelValues(table).Observe(float64(n))
}

// RecordConstraintViolation records a row rejected by a unique key.
func (m *Metrics) RecordConstraintViolation(table string) {
	if m == nil {
		return
	}
	m.ConstraintViolations.WithLabelValues(table).Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.HTTPRateLimited.Inc()
}

// SetPoolStats publishes the current connection pool sizes.
func (m *Metrics) SetPoolStats(acquired, idle, total int32) {
	if m == nil {
		return
	}
	m.PoolConnections.WithLabelValues("acquired").Set(float64(acquired))
	m.PoolConnections.WithLabelValues("idle").Set(float64(idle))
	m.PoolConnections.WithLabelValues("total").Set(float64(total))
}

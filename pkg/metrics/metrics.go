package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus коллекторов сервиса.
// Все методы безопасно вызывать на nil, когда метрики выключены.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BookingsCreated   prometheus.Counter
	BookingConflicts  prometheus.Counter
	PaymentsRecorded  *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec

	TxDuration *prometheus.HistogramVec
	TxRetries  *prometheus.CounterVec

	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBWaitCount       prometheus.Gauge

	SyncFailures *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings successfully created.",
			ConstLabels: constLabels,
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Booking writes rejected because of an overlapping booking.",
			ConstLabels: constLabels,
		}),
		PaymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_recorded_total",
			Help:        "Payments recorded by method.",
			ConstLabels: constLabels,
		}, []string{"method"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_status_transitions_total",
			Help:        "Booking status changes.",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		TxDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_transaction_duration_seconds",
			Help:        "Database transaction duration.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"kind", "outcome"}),
		TxRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transaction_retries_total",
			Help:        "Transactions retried after a serialization failure.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool.",
			ConstLabels: constLabels,
		}),
		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}),
		SyncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "external_sync_failures_total",
			Help:        "Failed deliveries to external systems.",
			ConstLabels: constLabels,
		}, []string{"target"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsCreated,
		m.BookingConflicts,
		m.PaymentsRecorded,
		m.StatusTransitions,
		m.TxDuration,
		m.TxRetries,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBWaitCount,
		m.SyncFailures,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

func (m *Metrics) IncBookingConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) IncPaymentRecorded(method string) {
	if m == nil {
		return
	}
	m.PaymentsRecorded.WithLabelValues(method).Inc()
}

func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// ObserveTx фиксирует длительность транзакции, outcome = commit | rollback
func (m *Metrics) ObserveTx(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "commit"
	if err != nil {
		outcome = "rollback"
	}
	m.TxDuration.WithLabelValues(kind, outcome).Observe(d.Seconds())
}

func (m *Metrics) IncTxRetry(kind string) {
	if m == nil {
		return
	}
	m.TxRetries.WithLabelValues(kind).Inc()
}

// SetPoolStats выставляет gauge пула соединений
func (m *Metrics) SetPoolStats(open, inUse int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUse.Set(float64(inUse))
	m.DBWaitCount.Set(float64(waitCount))
}

func (m *Metrics) IncSyncFailure(target string) {
	if m == nil {
		return
	}
	m.SyncFailures.WithLabelValues(target).Inc()
}

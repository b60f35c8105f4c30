package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	close(ch)
	metric, ok := <-ch
	require.True(t, ok)

	var pb dto.Metric
	require.NoError(t, metric.Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("venuecrm", prometheus.NewRegistry())

	m.IncBookingCreated()
	m.IncBookingConflict()
	m.IncBookingConflict()
	m.IncPaymentRecorded("cash")
	m.IncStatusTransition("preliminary", "deposit_paid")
	m.ObserveHTTP("GET", "/api/v1/bookings", "200", 10*time.Millisecond)
	m.ObserveTx("serializable", time.Millisecond, errors.New("rollback"))
	m.IncTxRetry("serializable")
	m.SetPoolStats(3, 1, 0)
	m.IncSyncFailure("calendar")

	assert.Equal(t, 1.0, value(t, m.BookingsCreated))
	assert.Equal(t, 2.0, value(t, m.BookingConflicts))
	assert.Equal(t, 1.0, value(t, m.PaymentsRecorded.WithLabelValues("cash")))
	assert.Equal(t, 1.0, value(t, m.StatusTransitions.WithLabelValues("preliminary", "deposit_paid")))
	assert.Equal(t, 1.0, value(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/bookings", "200")))
	assert.Equal(t, 1.0, value(t, m.TxRetries.WithLabelValues("serializable")))
	assert.Equal(t, 3.0, value(t, m.DBOpenConnections))
	assert.Equal(t, 1.0, value(t, m.SyncFailures.WithLabelValues("calendar")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncBookingCreated()
		m.IncBookingConflict()
		m.IncPaymentRecorded("card")
		m.IncStatusTransition("a", "b")
		m.ObserveHTTP("GET", "/", "200", time.Second)
		m.ObserveTx("default", time.Second, nil)
		m.IncTxRetry("default")
		m.SetPoolStats(0, 0, 0)
		m.IncSyncFailure("telegram")
	})
}

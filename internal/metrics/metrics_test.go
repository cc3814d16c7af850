package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveAvailability("ok", 12, 0.01)
	m.ObserveAvailability("closed_day", 0, 0.001)
	m.ObserveBooking("created")
	m.ObserveBooking("slot_taken")
	m.ObserveBooking("slot_taken")
	m.ObserveCorruptRecord()
	m.ObserveRealtimeEvent("INSERT")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.availabilityTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("slot_taken")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.corruptRecords))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.realtimeEvents.WithLabelValues("INSERT")))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveAvailability("ok", 3, 0.1)
	m.ObserveBooking("created")
	m.ObserveCorruptRecord()
	m.ObserveRealtimeEvent("DELETE")
}

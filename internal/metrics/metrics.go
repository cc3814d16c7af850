package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for availability and booking flows.
type BookingMetrics struct {
	availabilityTotal   *prometheus.CounterVec
	availabilityLatency prometheus.Histogram
	slotsReturned       prometheus.Histogram
	bookingsTotal       *prometheus.CounterVec
	corruptRecords      prometheus.Counter
	realtimeEvents      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Total availability queries",
		}, []string{"status"}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barber",
			Subsystem: "availability",
			Name:      "latency_seconds",
			Help:      "Latency of availability queries",
			Buckets:   prometheus.DefBuckets,
		}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barber",
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Number of free slots returned per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 40, 80},
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		corruptRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "corrupt_records_total",
			Help:      "Appointments skipped because end <= start",
		}),
		realtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Appointment change notifications received",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.availabilityTotal,
		m.availabilityLatency,
		m.slotsReturned,
		m.bookingsTotal,
		m.corruptRecords,
		m.realtimeEvents,
	)
	return m
}

func (m *BookingMetrics) ObserveAvailability(status string, slots int, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(status).Inc()
	m.availabilityLatency.Observe(seconds)
	if status == "ok" {
		m.slotsReturned.Observe(float64(slots))
	}
}

// ObserveBooking records one booking attempt. outcome is "created" or an
// error code such as "slot_taken".
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveCorruptRecord() {
	if m == nil {
		return
	}
	m.corruptRecords.Inc()
}

func (m *BookingMetrics) ObserveRealtimeEvent(op string) {
	if m == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(op).Inc()
}

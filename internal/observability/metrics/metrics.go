package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for availability and booking flows.
type BookingMetrics struct {
	bookingAttempts      *prometheus.CounterVec
	availabilityDuration prometheus.Histogram
	availabilitySlots    prometheus.Histogram
	transitions          *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trimminflow",
			Name:      "booking_attempts_total",
			Help:      "Booking attempts by outcome",
		}, []string{"result"}),
		availabilityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trimminflow",
			Name:      "availability_duration_seconds",
			Help:      "Latency of availability queries",
			Buckets:   prometheus.DefBuckets,
		}),
		availabilitySlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trimminflow",
			Name:      "availability_slots",
			Help:      "Number of slots returned per availability query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trimminflow",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by target and outcome",
		}, []string{"to", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingAttempts, m.availabilityDuration, m.availabilitySlots, m.transitions)
	return m
}

func (m *BookingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingAttempts.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveAvailability(seconds float64, slots int) {
	if m == nil {
		return
	}
	m.availabilityDuration.Observe(seconds)
	m.availabilitySlots.Observe(float64(slots))
}

func (m *BookingMetrics) ObserveTransition(to, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, result).Inc()
}

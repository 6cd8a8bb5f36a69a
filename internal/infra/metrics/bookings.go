package metrics

import (
	"uniresto-dining/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		bookingsCreatedTotal,
		ticketCodeCollisionsTotal,
		bookingTransitionsTotal,
		bookingsTotal,
	)
}

var (
	bookingsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created.",
		},
		[]string{"method"}, // 'online', 'onsite'
	)

	ticketCodeCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_code_collisions_total",
			Help: "Total number of ticket code collisions that forced a regeneration.",
		},
	)

	bookingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Lifecycle transition attempts by action and outcome.",
		},
		[]string{"action", "outcome"}, // outcome: 'applied', 'rejected', 'stale'
	)

	bookingsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookings_total",
			Help: "Current number of bookings by status.",
		},
		[]string{"status"}, // 'PENDING', 'PAID', 'VALIDATED'
	)
)

func IncBookingCreated(method string) {
	bookingsCreatedTotal.WithLabelValues(method).Inc()
}

func IncCodeCollision() {
	ticketCodeCollisionsTotal.Inc()
}

func IncTransition(action, outcome string) {
	bookingTransitionsTotal.WithLabelValues(action, outcome).Inc()
}

func SetBookingsTotal(counts map[model.BookingStatus]int) {
	// Set the gauge for each status present in the map.
	statuses := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusPaid,
		model.BookingStatusValidated,
	}
	for _, status := range statuses {
		if count, ok := counts[status]; ok {
			bookingsTotal.WithLabelValues(string(status)).Set(float64(count))
		}
	}
}

// Package metrics holds the Prometheus collectors shared by the API process
// and the worker.
package metrics

import (
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbooking_bookings_created_total",
		Help: "Bookings committed, by kind (single or roundtrip leg).",
	}, []string{"kind"})

	BookingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbooking_booking_failures_total",
		Help: "Booking attempts rolled back, by reason.",
	}, []string{"reason"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbooking_payments_total",
		Help: "Payment attempts, by outcome.",
	}, []string{"outcome"})

	Cancellations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbooking_cancellations_total",
		Help: "Cancellation requests, by outcome.",
	}, []string{"outcome"})

	SimulatorMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightbooking_simulator_mutations_total",
		Help: "Seat changes made by the market simulator, by action.",
	}, []string{"action"})

	SimulatorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbooking_simulator_errors_total",
		Help: "Market simulator steps that failed.",
	})

	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbooking_outbox_events_published_total",
		Help: "Outbox events published to Kafka.",
	})

	OutboxPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightbooking_outbox_publish_errors_total",
		Help: "Outbox events that failed to publish.",
	})
)

// Reason maps a booking failure to a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrNoSeatsAvailable):
		return "no_seats"
	case errors.Is(err, domain.ErrInvalidSchedule):
		return "invalid_schedule"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}

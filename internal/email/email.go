package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender writes notifications to the log. It stands in for an SMTP or
// provider client.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.WithFields(logrus.Fields{
		"to":         event.Email,
		"booking_id": event.BookingID,
		"type":       event.Type,
	}).Info(Subject(event))
	return nil
}

// Subject renders the notification headline for an event.
func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case domain.EventBookingCreated:
		return fmt.Sprintf("Seat %s on %s is held for you", event.SeatNumber, event.FlightNumber)
	case domain.EventBookingConfirmed:
		return fmt.Sprintf("Booking confirmed: %s", event.ReservationCode)
	case domain.EventPaymentFailed:
		return fmt.Sprintf("Payment for flight %s did not go through", event.FlightNumber)
	case domain.EventBookingCancelled:
		return fmt.Sprintf("Booking %d on %s cancelled", event.BookingID, event.FlightNumber)
	default:
		return fmt.Sprintf("Update on booking %d", event.BookingID)
	}
}

package kafka

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// BookingEvent is the JSON body published for every booking transition.
type BookingEvent struct {
	EventID         string    `json:"event_id"`
	Type            string    `json:"type"`
	BookingID       int64     `json:"booking_id"`
	PassengerID     int64     `json:"passenger_id"`
	PassengerName   string    `json:"passenger_name,omitempty"`
	Email           string    `json:"email,omitempty"`
	FlightID        int64     `json:"flight_id"`
	FlightNumber    string    `json:"flight_number,omitempty"`
	SeatNumber      string    `json:"seat_number,omitempty"`
	Status          string    `json:"status"`
	ReservationCode string    `json:"reservation_code,omitempty"`
	AmountCents     int64     `json:"amount_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventID, eventType string, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		EventID:         eventID,
		Type:            eventType,
		BookingID:       b.ID,
		PassengerID:     b.PassengerID,
		PassengerName:   b.PassengerName,
		Email:           b.PassengerEmail,
		FlightID:        b.FlightID,
		FlightNumber:    b.FlightNumber,
		SeatNumber:      b.SeatNumber,
		Status:          string(b.Status),
		ReservationCode: b.Code(),
		AmountCents:     b.AmountCents,
		OccurredAt:      at,
	}
}

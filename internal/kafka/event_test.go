package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingEvent(t *testing.T) {
	code := "AB12CD34"
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		ID:              5,
		PassengerID:     2,
		FlightID:        3,
		AmountCents:     12345,
		Status:          domain.BookingStatusConfirmed,
		ReservationCode: &code,
		FlightNumber:    "AI101",
		SeatNumber:      "1A",
		PassengerName:   "Asha Rao",
		PassengerEmail:  "asha@example.com",
	}

	ev := NewBookingEvent("evt-1", domain.EventBookingConfirmed, b, at)

	assert.Equal(t, "CONFIRMED", ev.Status)
	assert.Equal(t, code, ev.ReservationCode)
	assert.Equal(t, "asha@example.com", ev.Email)

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"booking_confirmed"`)
	assert.Contains(t, string(data), `"amount_cents":12345`)
}

func TestNewBookingEvent_PendingHasNoCode(t *testing.T) {
	b := &domain.Booking{ID: 1, Status: domain.BookingStatusPending}
	data, err := json.Marshal(NewBookingEvent("evt-2", domain.EventBookingCreated, b, time.Now()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "reservation_code")
}

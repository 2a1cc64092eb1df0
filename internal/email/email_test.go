package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	ev := kafka.BookingEvent{BookingID: 5, FlightNumber: "AI101", SeatNumber: "1A", ReservationCode: "AB12CD34"}

	ev.Type = domain.EventBookingCreated
	assert.Equal(t, "Seat 1A on AI101 is held for you", Subject(ev))
	ev.Type = domain.EventBookingConfirmed
	assert.Equal(t, "Booking confirmed: AB12CD34", Subject(ev))
	ev.Type = domain.EventBookingCancelled
	assert.Equal(t, "Booking 5 on AI101 cancelled", Subject(ev))
	ev.Type = "unknown"
	assert.Equal(t, "Update on booking 5", Subject(ev))
}

func TestSender_Send(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ev := kafka.BookingEvent{Type: domain.EventPaymentFailed, BookingID: 5, FlightNumber: "AI101", Email: "asha@example.com"}

	require.NoError(t, NewSender(logger).Send(context.Background(), ev))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "asha@example.com", entry.Data["to"])
	assert.Equal(t, "Payment for flight AI101 did not go through", entry.Message)
}

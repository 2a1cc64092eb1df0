package domain

import (
	"strconv"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "PENDING"
	BookingStatusConfirmed     BookingStatus = "CONFIRMED"
	BookingStatusPaymentFailed BookingStatus = "PAYMENT_FAILED"
	BookingStatusCancelled     BookingStatus = "CANCELLED"
)

// HoldsSeat reports whether a booking in this status keeps its seat occupied.
func (s BookingStatus) HoldsSeat() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPaymentFailed:
		return true
	}
	return false
}

// ActiveBookingStatuses lists the statuses that hold a seat.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusPaymentFailed,
}

type Booking struct {
	ID              int64
	PassengerID     int64
	FlightID        int64
	SeatID          int64
	AmountCents     int64
	Status          BookingStatus
	ReservationCode *string
	BookedAt        time.Time
	UpdatedAt       time.Time

	// Resolved for display, not stored on the booking row.
	FlightNumber   string
	SeatNumber     string
	PassengerName  string
	PassengerEmail string
}

func (b *Booking) Code() string {
	if b.ReservationCode == nil {
		return ""
	}
	return *b.ReservationCode
}

// BookingRef identifies a booking either by id or by reservation code.
type BookingRef struct {
	ID   int64
	Code string
}

// ParseBookingRef treats an all-digit identifier as a booking id and anything
// else as a reservation code.
func ParseBookingRef(s string) BookingRef {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return BookingRef{ID: id}
	}
	return BookingRef{Code: s}
}

func (r BookingRef) String() string {
	if r.Code != "" {
		return r.Code
	}
	return strconv.FormatInt(r.ID, 10)
}

package domain

import (
	"fmt"
	"time"
)

type Airline struct {
	ID       int64
	Name     string
	IATACode string
}

type Flight struct {
	ID            int64
	AirlineID     int64
	AirlineName   string
	FlightNumber  string
	Source        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	BaseFareCents int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the invariants a flight must satisfy before it is stored.
func (f *Flight) Validate() error {
	if f.AirlineID <= 0 {
		return fmt.Errorf("%w: airline is required", ErrInvalidInput)
	}
	if f.FlightNumber == "" || len(f.FlightNumber) > 6 {
		return fmt.Errorf("%w: flight number must be 1-6 characters", ErrInvalidInput)
	}
	if f.Source == "" || f.Destination == "" {
		return fmt.Errorf("%w: source and destination are required", ErrInvalidInput)
	}
	if !f.ArrivalTime.After(f.DepartureTime) {
		return fmt.Errorf("%w: arrival must be after departure", ErrInvalidInput)
	}
	if f.BaseFareCents <= 0 {
		return fmt.Errorf("%w: base fare must be positive", ErrInvalidInput)
	}
	return nil
}

func (f *Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}

// FlightQuote is a flight together with its live seat counts and a dynamic price.
type FlightQuote struct {
	Flight
	Seats        SeatCounts
	DynamicCents int64
}

// Package pricing computes dynamic fares from occupancy, time to departure
// and demand.
package pricing

import (
	"math"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/random"
)

const (
	jitterMin = -0.02
	jitterMax = 0.03
	floorRate = 0.5
)

type Input struct {
	BaseFareCents  int64
	SeatsAvailable int
	TotalSeats     int
	Departure      time.Time
	DemandIndex    float64
}

type Engine struct {
	rnd random.Source
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the evaluation time, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(rnd random.Source, opts ...Option) *Engine {
	e := &Engine{
		rnd: rnd,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DemandIndex derives the demand signal from live counts.
func DemandIndex(counts domain.SeatCounts) float64 {
	return 1.0 + float64(counts.Booked)/float64(max(counts.Total, 1))*0.5
}

// Price returns the fare in cents for the given inputs. Every call draws a
// fresh jitter, so repeated quotes vary slightly.
func (e *Engine) Price(in Input) int64 {
	baseFare := float64(in.BaseFareCents) / 100
	booked := max(in.TotalSeats-in.SeatsAvailable, 0)
	seatRatio := float64(booked) / float64(max(in.TotalSeats, 1))
	seatFactor := 0.25*seatRatio*seatRatio + 0.12*seatRatio

	daysToDepart := math.Max(in.Departure.Sub(e.now()).Hours()/24, 0)
	demandFactor := (in.DemandIndex - 1.0) * 0.6
	jitter := jitterMin + e.rnd.Float64()*(jitterMax-jitterMin)

	multiplier := 1 + seatFactor + timeFactor(daysToDepart) + demandFactor + jitter
	price := math.Max(baseFare*multiplier, floorRate*baseFare)
	return int64(math.Round(price * 100))
}

// Quote prices a flight from its live seat counts.
func (e *Engine) Quote(f *domain.Flight, counts domain.SeatCounts) int64 {
	return e.Price(Input{
		BaseFareCents:  f.BaseFareCents,
		SeatsAvailable: counts.Available(),
		TotalSeats:     counts.Total,
		Departure:      f.DepartureTime,
		DemandIndex:    DemandIndex(counts),
	})
}

func timeFactor(days float64) float64 {
	switch {
	case days < 1:
		return 0.60
	case days < 7:
		return 0.25
	case days < 30:
		return 0.08
	default:
		return -0.05
	}
}

package pricing

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/random"
	"github.com/stretchr/testify/assert"
)

// fixedSource returns the same draw every time.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }
func (f fixedSource) IntN(n int) int   { return 0 }

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

// 0.4 maps to a jitter of exactly zero.
const zeroJitter = fixedSource(0.4)

func TestEngine_Price_EarlyBirdEmptyFlight(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))

	price := e.Price(Input{
		BaseFareCents:  10000,
		SeatsAvailable: 10,
		TotalSeats:     10,
		Departure:      now.Add(40 * 24 * time.Hour),
		DemandIndex:    1.0,
	})

	assert.Equal(t, int64(9500), price)
}

func TestEngine_Price_JitterBand(t *testing.T) {
	e := NewEngine(random.New(99), WithClock(clock))
	for i := 0; i < 500; i++ {
		price := e.Price(Input{
			BaseFareCents:  10000,
			SeatsAvailable: 10,
			TotalSeats:     10,
			Departure:      now.Add(40 * 24 * time.Hour),
			DemandIndex:    1.0,
		})
		assert.GreaterOrEqual(t, price, int64(9300))
		assert.LessOrEqual(t, price, int64(9800))
	}
}

func TestEngine_Price_FullFlightLastMinute(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))
	counts := domain.SeatCounts{Total: 10, Booked: 10}

	price := e.Price(Input{
		BaseFareCents:  10000,
		SeatsAvailable: 0,
		TotalSeats:     10,
		Departure:      now.Add(12 * time.Hour),
		DemandIndex:    DemandIndex(counts),
	})

	// 1 + 0.37 seat + 0.6 time + 0.3 demand
	assert.Equal(t, int64(22700), price)
	assert.Greater(t, price, int64(10000))
}

func TestEngine_Price_TimeBands(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))
	testCases := []struct {
		name     string
		until    time.Duration
		expected int64
	}{
		{"departed", -time.Hour, 16000},
		{"under a day", 23 * time.Hour, 16000},
		{"one day", 24 * time.Hour, 12500},
		{"under a week", 6 * 24 * time.Hour, 12500},
		{"one week", 7 * 24 * time.Hour, 10800},
		{"under a month", 29 * 24 * time.Hour, 10800},
		{"a month out", 30 * 24 * time.Hour, 9500},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price := e.Price(Input{
				BaseFareCents:  10000,
				SeatsAvailable: 5,
				TotalSeats:     5,
				Departure:      now.Add(tc.until),
				DemandIndex:    1.0,
			})
			assert.Equal(t, tc.expected, price)
		})
	}
}

func TestEngine_Price_Floor(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))

	price := e.Price(Input{
		BaseFareCents:  10000,
		SeatsAvailable: 10,
		TotalSeats:     10,
		Departure:      now.Add(60 * 24 * time.Hour),
		DemandIndex:    0.0,
	})

	assert.Equal(t, int64(5000), price)
}

func TestEngine_Price_NoSeats(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))

	price := e.Price(Input{
		BaseFareCents: 10000,
		Departure:     now.Add(60 * 24 * time.Hour),
		DemandIndex:   1.0,
	})

	assert.Equal(t, int64(9500), price)
}

func TestDemandIndex(t *testing.T) {
	assert.Equal(t, 1.0, DemandIndex(domain.SeatCounts{}))
	assert.Equal(t, 1.25, DemandIndex(domain.SeatCounts{Total: 10, Booked: 5}))
	assert.Equal(t, 1.5, DemandIndex(domain.SeatCounts{Total: 10, Booked: 10}))
}

func TestEngine_Quote(t *testing.T) {
	e := NewEngine(zeroJitter, WithClock(clock))
	f := &domain.Flight{BaseFareCents: 10000, DepartureTime: now.Add(40 * 24 * time.Hour)}

	// 0.2 ratio: seat 0.034, demand 0.06, time -0.05
	assert.Equal(t, int64(10440), e.Quote(f, domain.SeatCounts{Total: 5, Booked: 1}))
}

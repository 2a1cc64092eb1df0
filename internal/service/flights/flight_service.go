package flights

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	SortByPrice    = "price"
	SortByDuration = "duration"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.FlightQuote, error)
	Quote(ctx context.Context, id int64) (*domain.FlightQuote, error)
	QuoteAll(ctx context.Context) ([]domain.FlightQuote, error)
	Seats(ctx context.Context, id int64) ([]domain.Seat, error)
	CreateFlight(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
}

// FlightCache stores the flight schedule only. Counts and prices are always
// read live.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Quoter interface {
	Quote(f *domain.Flight, counts domain.SeatCounts) int64
}

// SearchFilter narrows the catalogue. Zero values mean no restriction.
type SearchFilter struct {
	From          string
	To            string
	Date          time.Time
	MaxPriceCents int64
	SortBy        string
}

type CreateFlightInput struct {
	AirlineID     int64     `json:"airline_id"`
	FlightNumber  string    `json:"flight_number"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	BaseFareCents int64     `json:"base_fare_cents"`
}

type FlightService struct {
	tx       repository.Transactor
	repo     repository.FlightRepository
	airlines repository.AirlineRepository
	seats    repository.SeatRepository
	cache    FlightCache
	quoter   Quoter
	log      logrus.FieldLogger
}

func NewFlightService(
	tx repository.Transactor,
	repo repository.FlightRepository,
	airlines repository.AirlineRepository,
	seats repository.SeatRepository,
	cache FlightCache,
	quoter Quoter,
	log logrus.FieldLogger,
) *FlightService {
	return &FlightService{tx: tx, repo: repo, airlines: airlines, seats: seats, cache: cache, quoter: quoter, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.log.WithError(err).Warn("flights cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.WithError(err).Warn("flights cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, filter SearchFilter) ([]domain.FlightQuote, error) {
	flights, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		if filter.matches(f) {
			matched = append(matched, f)
		}
	}

	quotes, err := s.quoteMany(ctx, matched)
	if err != nil {
		return nil, err
	}
	if filter.MaxPriceCents > 0 {
		quotes = slices.DeleteFunc(quotes, func(q domain.FlightQuote) bool {
			return q.DynamicCents > filter.MaxPriceCents
		})
	}

	switch filter.SortBy {
	case SortByPrice:
		slices.SortStableFunc(quotes, func(a, b domain.FlightQuote) int {
			return cmp.Compare(a.DynamicCents, b.DynamicCents)
		})
	case SortByDuration:
		slices.SortStableFunc(quotes, func(a, b domain.FlightQuote) int {
			return cmp.Compare(a.Duration(), b.Duration())
		})
	}
	return quotes, nil
}

func (f SearchFilter) matches(fl domain.Flight) bool {
	if f.From != "" && !strings.Contains(strings.ToLower(fl.Source), strings.ToLower(f.From)) {
		return false
	}
	if f.To != "" && !strings.Contains(strings.ToLower(fl.Destination), strings.ToLower(f.To)) {
		return false
	}
	if !f.Date.IsZero() {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		dep := fl.DepartureTime.UTC()
		if dep.Before(day) || !dep.Before(day.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}

func (s *FlightService) Quote(ctx context.Context, id int64) (*domain.FlightQuote, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.seats.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.FlightQuote{
		Flight:       *flight,
		Seats:        counts,
		DynamicCents: s.quoter.Quote(flight, counts),
	}, nil
}

func (s *FlightService) QuoteAll(ctx context.Context) ([]domain.FlightQuote, error) {
	flights, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.quoteMany(ctx, flights)
}

func (s *FlightService) quoteMany(ctx context.Context, flights []domain.Flight) ([]domain.FlightQuote, error) {
	ids := make([]int64, len(flights))
	for i, f := range flights {
		ids[i] = f.ID
	}
	counts, err := s.seats.CountsByFlight(ctx, ids)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.FlightQuote, 0, len(flights))
	for i := range flights {
		c := counts[flights[i].ID]
		quotes = append(quotes, domain.FlightQuote{
			Flight:       flights[i],
			Seats:        c,
			DynamicCents: s.quoter.Quote(&flights[i], c),
		})
	}
	return quotes, nil
}

func (s *FlightService) Seats(ctx context.Context, id int64) ([]domain.Seat, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.seats.ListByFlight(ctx, id)
}

// CreateFlight stores the flight with the standard seat layout in one
// transaction and drops the cached schedule.
func (s *FlightService) CreateFlight(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	flight := &domain.Flight{
		AirlineID:     input.AirlineID,
		FlightNumber:  strings.ToUpper(strings.TrimSpace(input.FlightNumber)),
		Source:        strings.TrimSpace(input.Source),
		Destination:   strings.TrimSpace(input.Destination),
		DepartureTime: input.DepartureTime.UTC(),
		ArrivalTime:   input.ArrivalTime.UTC(),
		BaseFareCents: input.BaseFareCents,
	}
	if err := flight.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		airline, err := s.airlines.GetByID(ctx, flight.AirlineID)
		if err != nil {
			return err
		}
		flight.AirlineName = airline.Name
		if err := s.repo.Create(ctx, flight); err != nil {
			return err
		}
		return s.seats.CreateBatch(ctx, flight.ID, domain.StandardSeatLayout())
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.log.WithError(err).Warn("flights cache invalidation failed")
		}
	}
	s.log.WithFields(logrus.Fields{"flight_id": flight.ID, "flight_number": flight.FlightNumber}).Info("flight created")
	return flight, nil
}

var _ FlightUseCase = (*FlightService)(nil)

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/outbox"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/seats"
	"github.com/sirupsen/logrus"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	defaultMinLayover  = time.Hour
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CreateRoundtrip(ctx context.Context, input RoundtripInput) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, input CancelInput) (*CancelResult, error)
	GetBooking(ctx context.Context, ref domain.BookingRef, passengerID *int64) (*domain.Booking, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Booking, error)
	RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error)
}

// Pricer fixes the amount charged for a seat from post-allocation counts.
type Pricer interface {
	Quote(f *domain.Flight, counts domain.SeatCounts) int64
}

type CreateBookingInput struct {
	FlightID    int64  `json:"flight_id"`
	PassengerID int64  `json:"passenger_id"`
	SeatNumber  string `json:"seat_number,omitempty"`
}

type RoundtripInput struct {
	PassengerID      int64  `json:"passenger_id"`
	OutboundFlightID int64  `json:"outbound_flight_id"`
	OutboundSeat     string `json:"outbound_seat,omitempty"`
	ReturnFlightID   int64  `json:"return_flight_id"`
	ReturnSeat       string `json:"return_seat,omitempty"`
}

// CancelInput addresses a booking by id or reservation code. A nil
// PassengerID skips the ownership check.
type CancelInput struct {
	Ref         domain.BookingRef
	PassengerID *int64
}

type CancelResult struct {
	Booking          *domain.Booking
	AlreadyCancelled bool
}

type BookingService struct {
	tx         repository.Transactor
	bookings   repository.BookingRepository
	flights    repository.FlightRepository
	passengers repository.PassengerRepository
	seats      repository.SeatRepository
	allocator  seats.SeatAllocator
	pricer     Pricer
	events     outbox.EventRecorder
	log        logrus.FieldLogger
	minLayover time.Duration
}

type BookingServiceOption func(*BookingService)

// WithMinLayover sets how long after the outbound arrival a return leg may
// depart at the earliest.
func WithMinLayover(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.minLayover = d
		}
	}
}

func NewBookingService(
	tx repository.Transactor,
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	passengers repository.PassengerRepository,
	seatRepo repository.SeatRepository,
	allocator seats.SeatAllocator,
	pricer Pricer,
	events outbox.EventRecorder,
	log logrus.FieldLogger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:         tx,
		bookings:   bookings,
		flights:    flights,
		passengers: passengers,
		seats:      seatRepo,
		allocator:  allocator,
		pricer:     pricer,
		events:     events,
		log:        log,
		minLayover: defaultMinLayover,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		passenger, err := s.passengers.GetByID(ctx, input.PassengerID)
		if err != nil {
			return err
		}
		flight, err := s.flights.GetByID(ctx, input.FlightID)
		if err != nil {
			return err
		}
		booking, err = s.bookLeg(ctx, passenger, flight, input.SeatNumber)
		return err
	})
	if err != nil {
		s.failed(err, logrus.Fields{"flight_id": input.FlightID, "passenger_id": input.PassengerID})
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues("single").Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  booking.FlightID,
		"seat_id":    booking.SeatID,
		"amount":     booking.AmountCents,
	}).Info("booking created")
	return booking, nil
}

// CreateRoundtrip books both legs in one transaction. Any failure, including
// a return leg that departs too soon, leaves neither leg behind.
func (s *BookingService) CreateRoundtrip(ctx context.Context, input RoundtripInput) ([]domain.Booking, error) {
	var legs []domain.Booking
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		passenger, err := s.passengers.GetByID(ctx, input.PassengerID)
		if err != nil {
			return err
		}

		outboundFlight, err := s.flights.GetByID(ctx, input.OutboundFlightID)
		if err != nil {
			return err
		}
		outbound, err := s.bookLeg(ctx, passenger, outboundFlight, input.OutboundSeat)
		if err != nil {
			return err
		}

		returnFlight, err := s.flights.GetByID(ctx, input.ReturnFlightID)
		if err != nil {
			return err
		}
		earliest := outboundFlight.ArrivalTime.Add(s.minLayover)
		if returnFlight.DepartureTime.Before(earliest) {
			return fmt.Errorf("%w: return flight %d departs before %s",
				domain.ErrInvalidSchedule, returnFlight.ID, earliest.UTC().Format(time.RFC3339))
		}
		inbound, err := s.bookLeg(ctx, passenger, returnFlight, input.ReturnSeat)
		if err != nil {
			return err
		}

		legs = []domain.Booking{*outbound, *inbound}
		return nil
	})
	if err != nil {
		s.failed(err, logrus.Fields{
			"outbound_flight_id": input.OutboundFlightID,
			"return_flight_id":   input.ReturnFlightID,
			"passenger_id":       input.PassengerID,
		})
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues("roundtrip").Add(2)
	s.log.WithFields(logrus.Fields{
		"outbound_booking_id": legs[0].ID,
		"return_booking_id":   legs[1].ID,
		"passenger_id":        input.PassengerID,
	}).Info("roundtrip booked")
	return legs, nil
}

// bookLeg allocates a seat, prices it from the counts that include the new
// hold and stores a pending booking. It must run inside a transaction.
func (s *BookingService) bookLeg(ctx context.Context, passenger *domain.Passenger, flight *domain.Flight, seatNumber string) (*domain.Booking, error) {
	seat, err := s.allocator.Allocate(ctx, flight.ID, seatNumber)
	if err != nil {
		return nil, err
	}
	counts, err := s.seats.Counts(ctx, flight.ID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		PassengerID:    passenger.ID,
		FlightID:       flight.ID,
		SeatID:         seat.ID,
		AmountCents:    s.pricer.Quote(flight, counts),
		Status:         domain.BookingStatusPending,
		FlightNumber:   flight.FlightNumber,
		SeatNumber:     seat.SeatNumber,
		PassengerName:  passenger.FullName,
		PassengerEmail: passenger.Email,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	if err := s.events.Record(ctx, domain.EventBookingCreated, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, input CancelInput) (*CancelResult, error) {
	result := &CancelResult{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.lock(ctx, input.Ref)
		if err != nil {
			return err
		}
		if input.PassengerID != nil && *input.PassengerID != booking.PassengerID {
			return fmt.Errorf("booking %s: %w", input.Ref, domain.ErrForbidden)
		}
		result.Booking = booking
		if booking.Status == domain.BookingStatusCancelled {
			result.AlreadyCancelled = true
			return nil
		}

		if booking.Status.HoldsSeat() {
			if err := s.allocator.Release(ctx, booking.SeatID); err != nil {
				return err
			}
		}
		if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusCancelled
		return s.events.Record(ctx, domain.EventBookingCancelled, booking)
	})
	if err != nil {
		metrics.Cancellations.WithLabelValues(metrics.Reason(err)).Inc()
		s.log.WithError(err).WithField("ref", input.Ref.String()).Warn("cancellation failed")
		return nil, err
	}

	if result.AlreadyCancelled {
		metrics.Cancellations.WithLabelValues("already_cancelled").Inc()
		return result, nil
	}
	metrics.Cancellations.WithLabelValues("cancelled").Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": result.Booking.ID,
		"seat_id":    result.Booking.SeatID,
	}).Info("booking cancelled")
	return result, nil
}

func (s *BookingService) lock(ctx context.Context, ref domain.BookingRef) (*domain.Booking, error) {
	if ref.Code != "" {
		return s.bookings.LockByCode(ctx, ref.Code)
	}
	return s.bookings.LockByID(ctx, ref.ID)
}

func (s *BookingService) GetBooking(ctx context.Context, ref domain.BookingRef, passengerID *int64) (*domain.Booking, error) {
	var (
		booking *domain.Booking
		err     error
	)
	if ref.Code != "" {
		booking, err = s.bookings.GetByCode(ctx, ref.Code)
	} else {
		booking, err = s.bookings.GetByID(ctx, ref.ID)
	}
	if err != nil {
		return nil, err
	}
	if passengerID != nil && *passengerID != booking.PassengerID {
		return nil, fmt.Errorf("booking %s: %w", ref, domain.ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Booking, error) {
	if _, err := s.passengers.GetByID(ctx, passengerID); err != nil {
		return nil, err
	}
	return s.bookings.ListByPassenger(ctx, passengerID)
}

func (s *BookingService) RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	return s.bookings.ListRecent(ctx, limit)
}

func (s *BookingService) failed(err error, fields logrus.Fields) {
	reason := metrics.Reason(err)
	metrics.BookingFailures.WithLabelValues(reason).Inc()
	entry := s.log.WithError(err).WithFields(fields).WithField("reason", reason)
	if reason == "internal" {
		entry.Error("booking rolled back")
		return
	}
	entry.Info("booking rejected")
}

var _ BookingUseCase = (*BookingService)(nil)

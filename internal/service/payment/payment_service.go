// Package payment simulates charging a pending booking and issues its
// reservation code on success.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/outbox"
	"github.com/Domenick1991/flightbooking/internal/random"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

const defaultSuccessRate = 0.7

type PaymentUseCase interface {
	Pay(ctx context.Context, bookingID int64, passengerID *int64) (*domain.Booking, error)
}

type PaymentService struct {
	tx          repository.Transactor
	bookings    repository.BookingRepository
	codes       *CodeGenerator
	rnd         random.Source
	events      outbox.EventRecorder
	log         logrus.FieldLogger
	successRate float64
}

type Option func(*PaymentService)

func WithSuccessRate(rate float64) Option {
	return func(s *PaymentService) {
		if rate >= 0 && rate <= 1 {
			s.successRate = rate
		}
	}
}

func NewPaymentService(
	tx repository.Transactor,
	bookings repository.BookingRepository,
	codes *CodeGenerator,
	rnd random.Source,
	events outbox.EventRecorder,
	log logrus.FieldLogger,
	opts ...Option,
) *PaymentService {
	s := &PaymentService{
		tx:          tx,
		bookings:    bookings,
		codes:       codes,
		rnd:         rnd,
		events:      events,
		log:         log,
		successRate: defaultSuccessRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pay charges a booking. A confirmed booking is returned as is. A declined
// charge is committed as PAYMENT_FAILED and then reported together with
// domain.ErrPaymentDeclined; the seat stays held so the caller can retry.
func (s *PaymentService) Pay(ctx context.Context, bookingID int64, passengerID *int64) (*domain.Booking, error) {
	var (
		booking  *domain.Booking
		outcome  string
		declined bool
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if passengerID != nil && *passengerID != b.PassengerID {
			return fmt.Errorf("booking %d: %w", bookingID, domain.ErrForbidden)
		}
		booking = b

		switch b.Status {
		case domain.BookingStatusConfirmed:
			outcome = "already_confirmed"
			return nil
		case domain.BookingStatusCancelled:
			return fmt.Errorf("booking %d: %w", bookingID, domain.ErrBookingClosed)
		}

		if s.rnd.Float64() >= s.successRate {
			if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingStatusPaymentFailed); err != nil {
				return err
			}
			b.Status = domain.BookingStatusPaymentFailed
			outcome, declined = "declined", true
			return s.events.Record(ctx, domain.EventPaymentFailed, b)
		}

		code, err := s.codes.Generate(ctx)
		if err != nil {
			return err
		}
		if err := s.bookings.Confirm(ctx, b.ID, code); err != nil {
			if errors.Is(err, repository.ErrCodeTaken) {
				return fmt.Errorf("%w: %w", domain.ErrCodeGenerationExhausted, err)
			}
			return err
		}
		b.Status = domain.BookingStatusConfirmed
		b.ReservationCode = &code
		outcome = "confirmed"
		return s.events.Record(ctx, domain.EventBookingConfirmed, b)
	})
	if err != nil {
		metrics.Payments.WithLabelValues("error").Inc()
		s.log.WithError(err).WithField("booking_id", bookingID).Warn("payment failed")
		return nil, err
	}

	metrics.Payments.WithLabelValues(outcome).Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"status":     booking.Status,
		"outcome":    outcome,
	}).Info("payment processed")

	if declined {
		return booking, fmt.Errorf("booking %d: %w", bookingID, domain.ErrPaymentDeclined)
	}
	return booking, nil
}

var _ PaymentUseCase = (*PaymentService)(nil)

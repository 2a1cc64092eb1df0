// Package seats flips seat occupancy under row locks. Every method expects
// to run inside a transaction opened by repository.TxManager.
package seats

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type SeatAllocator interface {
	Allocate(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error)
	Release(ctx context.Context, seatID int64) error
}

type Allocator struct {
	seats repository.SeatRepository
}

func NewAllocator(seats repository.SeatRepository) *Allocator {
	return &Allocator{seats: seats}
}

// Allocate holds seatNumber on the flight, or the first free seat when
// seatNumber is empty. The returned seat is already marked booked within the
// caller's transaction.
func (a *Allocator) Allocate(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error) {
	counts, err := a.seats.Counts(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if counts.Available() <= 0 {
		return nil, fmt.Errorf("flight %d: %w", flightID, domain.ErrNoSeatsAvailable)
	}

	var seat *domain.Seat
	if seatNumber != "" {
		seat, err = a.seats.LockByNumber(ctx, flightID, seatNumber)
		if err != nil {
			return nil, err
		}
		if seat.IsBooked {
			return nil, fmt.Errorf("seat %s: %w", seatNumber, domain.ErrAlreadyBooked)
		}
	} else {
		seat, err = a.seats.LockFirstFree(ctx, flightID)
		if errors.Is(err, domain.ErrNotFound) {
			// lost the race between the count and the lock
			return nil, fmt.Errorf("flight %d: %w", flightID, domain.ErrNoSeatsAvailable)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := a.seats.SetBooked(ctx, seat.ID, true); err != nil {
		return nil, err
	}
	seat.IsBooked = true
	return seat, nil
}

// Release frees a seat. Releasing a seat that is already free is a no-op.
func (a *Allocator) Release(ctx context.Context, seatID int64) error {
	seat, err := a.seats.LockByID(ctx, seatID)
	if err != nil {
		return err
	}
	if !seat.IsBooked {
		return nil
	}
	return a.seats.SetBooked(ctx, seat.ID, false)
}

// HoldRandom marks a random free seat as taken without a booking. It returns
// domain.ErrNoSeatsAvailable when nothing is free or every free row is locked.
func (a *Allocator) HoldRandom(ctx context.Context, flightID int64) (*domain.Seat, error) {
	seat, err := a.seats.LockRandomFree(ctx, flightID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("flight %d: %w", flightID, domain.ErrNoSeatsAvailable)
	}
	if err != nil {
		return nil, err
	}
	if err := a.seats.SetBooked(ctx, seat.ID, true); err != nil {
		return nil, err
	}
	seat.IsBooked = true
	return seat, nil
}

// ReleaseRandomUnassigned frees a random occupied seat that no active booking
// holds. A nil seat means there was nothing to release.
func (a *Allocator) ReleaseRandomUnassigned(ctx context.Context, flightID int64) (*domain.Seat, error) {
	seat, err := a.seats.LockRandomUnassigned(ctx, flightID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := a.seats.SetBooked(ctx, seat.ID, false); err != nil {
		return nil, err
	}
	seat.IsBooked = false
	return seat, nil
}

var _ SeatAllocator = (*Allocator)(nil)

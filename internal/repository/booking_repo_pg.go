package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ErrCodeTaken is returned by Confirm when another booking already owns the code.
var ErrCodeTaken = errors.New("reservation code taken")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	LockByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockByCode(ctx context.Context, code string) (*domain.Booking, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Booking, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Booking, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Confirm(ctx context.Context, id int64, code string) error
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingSelect = `SELECT b.id, b.passenger_id, b.flight_id, b.seat_id, b.amount_cents, b.status,
	b.reservation_code, b.booked_at, b.updated_at,
	COALESCE(f.flight_number, ''), COALESCE(s.seat_number, ''),
	COALESCE(p.full_name, ''), COALESCE(p.email, '')
	FROM bookings b
	LEFT JOIN flights f ON f.id = b.flight_id
	LEFT JOIN seats s ON s.id = b.seat_id
	LEFT JOIN passengers p ON p.id = b.passenger_id`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.PassengerID, &b.FlightID, &b.SeatID, &b.AmountCents, &b.Status,
		&b.ReservationCode, &b.BookedAt, &b.UpdatedAt,
		&b.FlightNumber, &b.SeatNumber, &b.PassengerName, &b.PassengerEmail)
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO bookings
		(passenger_id, flight_id, seat_id, amount_cents, status, reservation_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booked_at, updated_at`,
		b.PassengerID, b.FlightID, b.SeatID, b.AmountCents, b.Status, b.ReservationCode).
		Scan(&b.ID, &b.BookedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert booking: seat %d: %w", b.SeatID, domain.ErrAlreadyBooked)
		}
		return storageErr("insert booking", err)
	}
	return nil
}

func (r *PGBookingRepository) getOne(ctx context.Context, op, where string, arg any) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanBooking(conn(ctx, r.db).QueryRow(ctx, bookingSelect+` WHERE `+where, arg), &b); err != nil {
		return nil, lookupErr(op, err)
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "get booking", `b.id = $1`, id)
}

func (r *PGBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, "get booking by code", `b.reservation_code = $1`, code)
}

func (r *PGBookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "lock booking", `b.id = $1 FOR UPDATE OF b`, id)
}

func (r *PGBookingRepository) LockByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, "lock booking by code", `b.reservation_code = $1 FOR UPDATE OF b`, code)
}

func (r *PGBookingRepository) list(ctx context.Context, op, tail string, args ...any) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, bookingSelect+tail, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, storageErr("scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Booking, error) {
	return r.list(ctx, "list passenger bookings",
		` WHERE b.passenger_id = $1 AND b.status <> $2 ORDER BY b.booked_at DESC, b.id DESC`,
		passengerID, domain.BookingStatusCancelled)
}

func (r *PGBookingRepository) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	return r.list(ctx, "list recent bookings", ` ORDER BY b.booked_at DESC, b.id DESC LIMIT $1`, limit)
}

func (r *PGBookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE reservation_code = $1)`, code).
		Scan(&exists)
	if err != nil {
		return false, storageErr("check reservation code", err)
	}
	return exists, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return storageErr("update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update booking %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Confirm sets the status and the reservation code in one statement, so a
// confirmed booking without a code is never visible.
func (r *PGBookingRepository) Confirm(ctx context.Context, id int64, code string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE bookings SET status = $2, reservation_code = $3, updated_at = now()
		WHERE id = $1`, id, domain.BookingStatusConfirmed, code)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("confirm booking %d: %w", id, ErrCodeTaken)
		}
		return storageErr("confirm booking", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("confirm booking %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)

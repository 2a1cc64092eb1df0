package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SeatRepository owns the seat inventory. The Lock* methods take a row lock
// that is held until the surrounding transaction ends, so they only make
// sense inside TxManager.WithinTransaction.
type SeatRepository interface {
	Counts(ctx context.Context, flightID int64) (domain.SeatCounts, error)
	CountsByFlight(ctx context.Context, flightIDs []int64) (map[int64]domain.SeatCounts, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error)
	LockByID(ctx context.Context, seatID int64) (*domain.Seat, error)
	LockByNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error)
	LockFirstFree(ctx context.Context, flightID int64) (*domain.Seat, error)
	LockRandomFree(ctx context.Context, flightID int64) (*domain.Seat, error)
	LockRandomUnassigned(ctx context.Context, flightID int64) (*domain.Seat, error)
	SetBooked(ctx context.Context, seatID int64, booked bool) error
	CreateBatch(ctx context.Context, flightID int64, seats []domain.Seat) error
}

type PGSeatRepository struct {
	db DB
}

func NewSeatRepository(db DB) SeatRepository {
	return &PGSeatRepository{db: db}
}

const seatColumns = `s.id, s.flight_id, s.seat_number, s.seat_class, s.is_booked`

func scanSeat(row pgx.Row) (*domain.Seat, error) {
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.SeatClass, &s.IsBooked); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGSeatRepository) Counts(ctx context.Context, flightID int64) (domain.SeatCounts, error) {
	var c domain.SeatCounts
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*), count(*) FILTER (WHERE is_booked)
		FROM seats WHERE flight_id = $1`, flightID).Scan(&c.Total, &c.Booked)
	if err != nil {
		return domain.SeatCounts{}, storageErr("count seats", err)
	}
	return c, nil
}

func (r *PGSeatRepository) CountsByFlight(ctx context.Context, flightIDs []int64) (map[int64]domain.SeatCounts, error) {
	out := make(map[int64]domain.SeatCounts, len(flightIDs))
	if len(flightIDs) == 0 {
		return out, nil
	}
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT flight_id, count(*), count(*) FILTER (WHERE is_booked)
		FROM seats WHERE flight_id = ANY($1) GROUP BY flight_id`, flightIDs)
	if err != nil {
		return nil, storageErr("count seats by flight", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var c domain.SeatCounts
		if err := rows.Scan(&id, &c.Total, &c.Booked); err != nil {
			return nil, storageErr("scan seat counts", err)
		}
		out[id] = c
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count seats by flight", err)
	}
	return out, nil
}

func (r *PGSeatRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.flight_id = $1 ORDER BY s.id`, flightID)
	if err != nil {
		return nil, storageErr("list seats", err)
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, storageErr("scan seat", err)
		}
		seats = append(seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list seats", err)
	}
	return seats, nil
}

func (r *PGSeatRepository) LockByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	s, err := scanSeat(conn(ctx, r.db).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.id = $1 FOR UPDATE`, seatID))
	if err != nil {
		return nil, lookupErr("lock seat", err)
	}
	return s, nil
}

// LockByNumber waits for any holder of the row, so the occupancy flag it
// returns is the committed one.
func (r *PGSeatRepository) LockByNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error) {
	s, err := scanSeat(conn(ctx, r.db).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.flight_id = $1 AND s.seat_number = $2 FOR UPDATE`, flightID, seatNumber))
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("lock seat %s", seatNumber), err)
	}
	return s, nil
}

// LockFirstFree skips rows other transactions are holding. A plain FOR UPDATE
// with LIMIT 1 could wait on a seat that is then taken and return nothing
// even though other free seats exist.
func (r *PGSeatRepository) LockFirstFree(ctx context.Context, flightID int64) (*domain.Seat, error) {
	s, err := scanSeat(conn(ctx, r.db).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.flight_id = $1 AND NOT s.is_booked
		ORDER BY s.id LIMIT 1 FOR UPDATE SKIP LOCKED`, flightID))
	if err != nil {
		return nil, lookupErr("lock free seat", err)
	}
	return s, nil
}

func (r *PGSeatRepository) LockRandomFree(ctx context.Context, flightID int64) (*domain.Seat, error) {
	s, err := scanSeat(conn(ctx, r.db).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.flight_id = $1 AND NOT s.is_booked
		ORDER BY random() LIMIT 1 FOR UPDATE SKIP LOCKED`, flightID))
	if err != nil {
		return nil, lookupErr("lock random free seat", err)
	}
	return s, nil
}

// LockRandomUnassigned picks an occupied seat that no active booking holds.
func (r *PGSeatRepository) LockRandomUnassigned(ctx context.Context, flightID int64) (*domain.Seat, error) {
	s, err := scanSeat(conn(ctx, r.db).QueryRow(ctx, `SELECT `+seatColumns+` FROM seats s
		WHERE s.flight_id = $1 AND s.is_booked
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b WHERE b.seat_id = s.id AND b.status = ANY($2)
		  )
		ORDER BY random() LIMIT 1 FOR UPDATE OF s SKIP LOCKED`, flightID, activeStatuses()))
	if err != nil {
		return nil, lookupErr("lock random unassigned seat", err)
	}
	return s, nil
}

func (r *PGSeatRepository) SetBooked(ctx context.Context, seatID int64, booked bool) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE seats SET is_booked = $2, updated_at = now() WHERE id = $1`, seatID, booked)
	if err != nil {
		return storageErr("update seat", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update seat %d: %w", seatID, domain.ErrNotFound)
	}
	return nil
}

func (r *PGSeatRepository) CreateBatch(ctx context.Context, flightID int64, seats []domain.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	numbers := make([]string, len(seats))
	classes := make([]string, len(seats))
	for i, s := range seats {
		numbers[i] = s.SeatNumber
		classes[i] = s.SeatClass
	}
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO seats (flight_id, seat_number, seat_class)
		SELECT $1, n, c FROM unnest($2::text[], $3::text[]) AS t(n, c)
		ON CONFLICT (flight_id, seat_number) DO NOTHING`, flightID, numbers, classes)
	if err != nil {
		return storageErr("insert seats", err)
	}
	return nil
}

func activeStatuses() []string {
	out := make([]string, len(domain.ActiveBookingStatuses))
	for i, s := range domain.ActiveBookingStatuses {
		out[i] = string(s)
	}
	return out
}

var _ SeatRepository = (*PGSeatRepository)(nil)

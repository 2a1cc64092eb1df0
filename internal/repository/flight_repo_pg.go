package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.airline_id, COALESCE(a.name, ''), f.flight_number, f.source, f.destination,
	f.departure_time, f.arrival_time, f.base_fare_cents, f.created_at, f.updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.AirlineID, &f.AirlineName, &f.FlightNumber, &f.Source, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.BaseFareCents, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+flightColumns+`
		FROM flights f LEFT JOIN airlines a ON a.id = f.airline_id
		ORDER BY f.departure_time`)
	if err != nil {
		return nil, storageErr("list flights", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, storageErr("scan flight", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list flights", err)
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+`
		FROM flights f LEFT JOIN airlines a ON a.id = f.airline_id
		WHERE f.id = $1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		return nil, lookupErr("get flight", err)
	}
	return &f, nil
}

func (r *PGFlightRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id FROM flights ORDER BY id`)
	if err != nil {
		return nil, storageErr("list flight ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, storageErr("collect flight ids", err)
	}
	return ids, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO flights
		(airline_id, flight_number, source, destination, departure_time, arrival_time, base_fare_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		f.AirlineID, f.FlightNumber, f.Source, f.Destination, f.DepartureTime, f.ArrivalTime, f.BaseFareCents).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return storageErr("insert flight", err)
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)

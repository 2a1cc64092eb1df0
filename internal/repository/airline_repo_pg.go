package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type AirlineRepository interface {
	Create(ctx context.Context, airline *domain.Airline) error
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
}

type PGAirlineRepository struct {
	db DB
}

func NewAirlineRepository(db DB) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) Create(ctx context.Context, a *domain.Airline) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO airlines (name, iata_code) VALUES ($1, $2) RETURNING id`,
		a.Name, a.IATACode).Scan(&a.ID)
	if err != nil {
		return storageErr("insert airline", err)
	}
	return nil
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	var a domain.Airline
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, iata_code FROM airlines WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.IATACode)
	if err != nil {
		return nil, lookupErr("get airline", err)
	}
	return &a, nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)

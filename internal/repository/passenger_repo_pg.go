package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
}

type PGPassengerRepository struct {
	db DB
}

func NewPassengerRepository(db DB) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO passengers (full_name, email, phone)
		VALUES ($1, $2, $3) RETURNING id, created_at`, p.FullName, p.Email, p.Phone).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
		}
		return storageErr("insert passenger", err)
	}
	return nil
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	var p domain.Passenger
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, full_name, email, phone, created_at FROM passengers WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		return nil, lookupErr("get passenger", err)
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)

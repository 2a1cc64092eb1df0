package passengers

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type PassengerUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Passenger, error)
	Get(ctx context.Context, id int64) (*domain.Passenger, error)
}

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type PassengerService struct {
	repo repository.PassengerRepository
	log  logrus.FieldLogger
}

func NewPassengerService(repo repository.PassengerRepository, log logrus.FieldLogger) *PassengerService {
	return &PassengerService{repo: repo, log: log}
}

func (s *PassengerService) Register(ctx context.Context, input RegisterInput) (*domain.Passenger, error) {
	p := &domain.Passenger{
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.WithField("passenger_id", p.ID).Info("passenger registered")
	return p, nil
}

func (s *PassengerService) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.repo.GetByID(ctx, id)
}

var _ PassengerUseCase = (*PassengerService)(nil)

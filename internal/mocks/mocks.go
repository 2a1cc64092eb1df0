// Package mocks holds testify doubles for the repository interfaces.
package mocks

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Transactor runs fn directly. Set Err to make the next transaction fail
// before fn is called.
type Transactor struct {
	Calls int
	Err   error
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}

func booking(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func seat(args mock.Arguments) (*domain.Seat, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seat), args.Error(1)
}

type BookingRepository struct {
	mock.Mock
}

func (m *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return booking(m.Called(ctx, id))
}

func (m *BookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return booking(m.Called(ctx, code))
}

func (m *BookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return booking(m.Called(ctx, id))
}

func (m *BookingRepository) LockByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return booking(m.Called(ctx, code))
}

func (m *BookingRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, passengerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *BookingRepository) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *BookingRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *BookingRepository) Confirm(ctx context.Context, id int64, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

type FlightRepository struct {
	mock.Mock
}

func (m *FlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *FlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *FlightRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *FlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return m.Called(ctx, f).Error(0)
}

type AirlineRepository struct {
	mock.Mock
}

func (m *AirlineRepository) Create(ctx context.Context, a *domain.Airline) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

type PassengerRepository struct {
	mock.Mock
}

func (m *PassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

type SeatRepository struct {
	mock.Mock
}

func (m *SeatRepository) Counts(ctx context.Context, flightID int64) (domain.SeatCounts, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(domain.SeatCounts), args.Error(1)
}

func (m *SeatRepository) CountsByFlight(ctx context.Context, flightIDs []int64) (map[int64]domain.SeatCounts, error) {
	args := m.Called(ctx, flightIDs)
	return args.Get(0).(map[int64]domain.SeatCounts), args.Error(1)
}

func (m *SeatRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *SeatRepository) LockByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	return seat(m.Called(ctx, seatID))
}

func (m *SeatRepository) LockByNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error) {
	return seat(m.Called(ctx, flightID, seatNumber))
}

func (m *SeatRepository) LockFirstFree(ctx context.Context, flightID int64) (*domain.Seat, error) {
	return seat(m.Called(ctx, flightID))
}

func (m *SeatRepository) LockRandomFree(ctx context.Context, flightID int64) (*domain.Seat, error) {
	return seat(m.Called(ctx, flightID))
}

func (m *SeatRepository) LockRandomUnassigned(ctx context.Context, flightID int64) (*domain.Seat, error) {
	return seat(m.Called(ctx, flightID))
}

func (m *SeatRepository) SetBooked(ctx context.Context, seatID int64, booked bool) error {
	return m.Called(ctx, seatID, booked).Error(0)
}

func (m *SeatRepository) CreateBatch(ctx context.Context, flightID int64, seats []domain.Seat) error {
	return m.Called(ctx, flightID, seats).Error(0)
}

type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *OutboxRepository) FetchBatch(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.OutboxEvent), args.Error(1)
}

func (m *OutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

// EventRecorder captures recorded booking events.
type EventRecorder struct {
	mock.Mock
}

func (m *EventRecorder) Record(ctx context.Context, eventType string, b *domain.Booking) error {
	return m.Called(ctx, eventType, b).Error(0)
}

var (
	_ repository.Transactor          = (*Transactor)(nil)
	_ repository.BookingRepository   = (*BookingRepository)(nil)
	_ repository.FlightRepository    = (*FlightRepository)(nil)
	_ repository.AirlineRepository   = (*AirlineRepository)(nil)
	_ repository.PassengerRepository = (*PassengerRepository)(nil)
	_ repository.SeatRepository      = (*SeatRepository)(nil)
	_ repository.OutboxRepository    = (*OutboxRepository)(nil)
)

// Package simulator emulates outside demand by holding and freeing random
// seats on a schedule, under the same row locks the booking path uses.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/random"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const leaseName = "market-simulator"

type FlightLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type SeatMutator interface {
	HoldRandom(ctx context.Context, flightID int64) (*domain.Seat, error)
	ReleaseRandomUnassigned(ctx context.Context, flightID int64) (*domain.Seat, error)
}

// Lease keeps replicas from running the simulator at the same time.
type Lease interface {
	AcquireLease(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, name string) error
}

type Config struct {
	Interval       time.Duration
	SampleSize     int
	MutationChance float64
	BookChance     float64
	ReleaseChance  float64
}

func DefaultConfig() Config {
	return Config{
		Interval:       20 * time.Second,
		SampleSize:     3,
		MutationChance: 0.25,
		BookChance:     0.6,
		ReleaseChance:  0.5,
	}
}

type Simulator struct {
	tx      repository.Transactor
	flights FlightLister
	seats   repository.SeatRepository
	mutator SeatMutator
	lease   Lease
	rnd     random.Source
	cfg     Config
	log     logrus.FieldLogger

	mu     sync.Mutex
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a simulator. lease may be nil for a single replica.
func New(
	tx repository.Transactor,
	flights FlightLister,
	seats repository.SeatRepository,
	mutator SeatMutator,
	lease Lease,
	rnd random.Source,
	cfg Config,
	log logrus.FieldLogger,
) *Simulator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Simulator{
		tx:      tx,
		flights: flights,
		seats:   seats,
		mutator: mutator,
		lease:   lease,
		rnd:     rnd,
		cfg:     cfg,
		log:     log.WithField("component", "simulator"),
	}
}

// Start schedules Step every cfg.Interval. A step that is still running when
// the next tick fires makes that tick a no-op.
func (s *Simulator) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return errors.New("simulator already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(s.log)), cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.cfg.Interval), s.tick); err != nil {
		s.cancel()
		return fmt.Errorf("schedule simulator: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.WithField("interval", s.cfg.Interval.String()).Info("market simulator started")
	return nil
}

// Stop cancels an in-flight step, waits for it to return and gives up the
// lease so another replica can take over.
func (s *Simulator) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	cancel()
	<-c.Stop().Done()
	if s.lease != nil {
		releaseCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := s.lease.ReleaseLease(releaseCtx, leaseName); err != nil {
			s.log.WithError(err).Warn("release simulator lease")
		}
	}
	s.log.Info("market simulator stopped")
}

func (s *Simulator) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	s.runOnce(ctx)
}

func (s *Simulator) runOnce(ctx context.Context) {
	if s.lease != nil {
		ok, err := s.lease.AcquireLease(ctx, leaseName, s.leaseTTL())
		if err != nil {
			s.log.WithError(err).Warn("simulator lease unavailable, skipping step")
			return
		}
		if !ok {
			return
		}
	}
	if err := s.Step(ctx); err != nil {
		metrics.SimulatorErrors.Inc()
		s.log.WithError(err).Error("simulator step failed")
	}
}

// leaseTTL outlives one interval so the owner renews it before it lapses.
// Another replica takes over two intervals after the owner stops ticking.
func (s *Simulator) leaseTTL() time.Duration {
	return 2 * s.cfg.Interval
}

// Step samples flights and maybe mutates one seat on each. Every mutation is
// its own transaction; a failure on one flight does not stop the others.
func (s *Simulator) Step(ctx context.Context) error {
	ids, err := s.flights.ListIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range random.Sample(s.rnd, ids, s.cfg.SampleSize) {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if s.rnd.Float64() >= s.cfg.MutationChance {
			continue
		}
		if err := s.mutate(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("flight %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Simulator) mutate(ctx context.Context, flightID int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		counts, err := s.seats.Counts(ctx, flightID)
		if err != nil {
			return err
		}

		if counts.Available() > 0 && s.rnd.Float64() < s.cfg.BookChance {
			seat, err := s.mutator.HoldRandom(ctx, flightID)
			if errors.Is(err, domain.ErrNoSeatsAvailable) {
				return nil
			}
			if err != nil {
				return err
			}
			metrics.SimulatorMutations.WithLabelValues("hold").Inc()
			s.log.WithFields(logrus.Fields{"flight_id": flightID, "seat_id": seat.ID}).Debug("seat held")
			return nil
		}

		if counts.Booked == 0 || s.rnd.Float64() >= s.cfg.ReleaseChance {
			return nil
		}
		seat, err := s.mutator.ReleaseRandomUnassigned(ctx, flightID)
		if err != nil {
			return err
		}
		if seat != nil {
			metrics.SimulatorMutations.WithLabelValues("release").Inc()
			s.log.WithFields(logrus.Fields{"flight_id": flightID, "seat_id": seat.ID}).Debug("seat released")
		}
		return nil
	})
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/outbox"
	"github.com/Domenick1991/flightbooking/internal/pricing"
	"github.com/Domenick1991/flightbooking/internal/random"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/passengers"
	"github.com/Domenick1991/flightbooking/internal/service/payment"
	"github.com/Domenick1991/flightbooking/internal/service/seats"
	"github.com/Domenick1991/flightbooking/internal/simulator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(cfg.Log, "flightbooking-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second, uuid.NewString())
	defer redisCache.Close()

	rnd := random.New(cfg.RandomSeed)
	txManager := repository.NewTxManager(pool)

	flightRepo := repository.NewFlightRepository(pool)
	airlineRepo := repository.NewAirlineRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	events := outbox.NewRecorder(repository.NewOutboxRepository(pool))

	pricer := pricing.NewEngine(rnd)
	allocator := seats.NewAllocator(seatRepo)

	flightService := flights.NewFlightService(txManager, flightRepo, airlineRepo, seatRepo, redisCache, pricer, log)
	passengerService := passengers.NewPassengerService(passengerRepo, log)
	bookingService := booking.NewBookingService(
		txManager,
		bookingRepo,
		flightRepo,
		passengerRepo,
		seatRepo,
		allocator,
		pricer,
		events,
		log,
		booking.WithMinLayover(time.Duration(cfg.Booking.RoundtripMinLayoverMinute)*time.Minute),
	)
	paymentService := payment.NewPaymentService(
		txManager,
		bookingRepo,
		payment.NewCodeGenerator(rnd, bookingRepo, cfg.Booking.CodeLength, cfg.Booking.CodeAttempts),
		rnd,
		events,
		log,
		payment.WithSuccessRate(cfg.Booking.PaymentSuccessRate),
	)

	if cfg.Simulator.Enabled {
		sim := simulator.New(txManager, flightRepo, seatRepo, allocator, redisCache, rnd, simulator.Config{
			Interval:       time.Duration(cfg.Simulator.IntervalSeconds) * time.Second,
			SampleSize:     cfg.Simulator.SampleSize,
			MutationChance: cfg.Simulator.MutationChance,
			BookChance:     cfg.Simulator.BookChance,
			ReleaseChance:  cfg.Simulator.ReleaseChance,
		}, log)
		if err := sim.Start(ctx); err != nil {
			log.WithError(err).Fatal("start market simulator")
		}
		defer sim.Stop()
	}

	health := api.NewHealthHandler(map[string]api.Pinger{
		"postgres": pool,
		"redis":    redisCache,
	})

	if err := bootstrap.Run(ctx, cfg, log,
		health,
		api.NewFlightHandler(flightService),
		api.NewPassengerHandler(passengerService, bookingService),
		api.NewBookingHandler(bookingService, paymentService),
	); err != nil {
		log.WithError(err).Error("server error")
	}
}

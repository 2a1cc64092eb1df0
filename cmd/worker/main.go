package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/worker"
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
	log := logging.New(cfg.Log, "flightbooking-worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.WithError(err).Warn("kafka is not reachable yet, relay will retry")
	}

	relay := worker.NewOutboxRelay(
		repository.NewOutboxRepository(pool, repository.WithReclaimAfter(time.Duration(cfg.Worker.OutboxReclaimSeconds)*time.Second)),
		producer,
		[]string{cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic},
		cfg.Worker.OutboxBatchSize,
		time.Duration(cfg.Worker.OutboxPollSeconds)*time.Second,
		log,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()
	notifier := worker.NewNotifier(email.NewSender(log), log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := relay.Run(ctx); err != nil {
			log.WithError(err).Error("outbox relay stopped")
		}
	}()
	go func() {
		defer wg.Done()
		if err := consumer.Consume(ctx, notifier.Handle); err != nil {
			log.WithError(err).Error("notification consumer stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down worker")
	wg.Wait()
}

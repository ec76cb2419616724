package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/busbooking/config"
	"github.com/Domenick1991/busbooking/internal/email"
	"github.com/Domenick1991/busbooking/internal/kafka"
	"github.com/Domenick1991/busbooking/internal/logger"
	"github.com/Domenick1991/busbooking/internal/repository"
	"github.com/Domenick1991/busbooking/internal/ticket"
	"github.com/Domenick1991/busbooking/internal/worker"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	l, err := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("setup logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ledger worker.Ledger
	if cfg.Database.Enabled() {
		db, err := repository.Open(ctx, cfg.Database.DSN(), 5)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer db.Close()
		if err := repository.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		ledger = repository.NewBookingRepository(db)
	} else {
		l.Warn("[worker] no database configured; redelivered events will be fulfilled again")
	}

	fulfillment := worker.NewFulfillment(
		ledger,
		ticket.NewRenderer(cfg.Ticket.VerifyURLTemplate, cfg.Ticket.Brand),
		email.NewSender(cfg.Worker.MailFrom),
		cfg.Worker.TicketDir,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	l.Info("[worker] consuming", "topic", cfg.Kafka.BookingEventsTopic, "group", cfg.Kafka.GroupID)
	err = consumer.ConsumeBookings(ctx, fulfillment.Handle, func(msg kafkaGo.Message, err error) {
		fulfillment.Skip(msg.Offset, err)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	l.Info("[worker] stopped")
}

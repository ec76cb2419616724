package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/busbooking/api"
	"github.com/Domenick1991/busbooking/config"
	"github.com/Domenick1991/busbooking/internal/bootstrap"
	"github.com/Domenick1991/busbooking/internal/cache"
	"github.com/Domenick1991/busbooking/internal/kafka"
	"github.com/Domenick1991/busbooking/internal/logger"
	"github.com/Domenick1991/busbooking/internal/repository"
	"github.com/Domenick1991/busbooking/internal/service/auth"
	"github.com/Domenick1991/busbooking/internal/service/booking"
	"github.com/Domenick1991/busbooking/internal/service/routes"
	"github.com/Domenick1991/busbooking/internal/ticket"
	"github.com/Domenick1991/busbooking/internal/transport"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	l, err := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("setup logger: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	layouts, err := cfg.SeatTable()
	if err != nil {
		log.Fatalf("seat layouts: %v", err)
	}

	client := transport.New(cfg.API.BaseURL, cfg.API.Timeout(), transport.WithLogger(l))

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.RoutesTTL(), cfg.Session.TTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, kafka.WithRetries(cfg.Kafka.PublishAttempts, 500*time.Millisecond))
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		l.Warn("[app] kafka unavailable, booking events will be retried per submit", "error", err)
	}

	var ledger api.TicketStore
	var renderer *ticket.Renderer
	if cfg.Database.Enabled() {
		db, err := repository.Open(ctx, cfg.Database.DSN(), 5)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		if err := repository.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		ledger = repository.NewBookingRepository(db)
		renderer = ticket.NewRenderer(cfg.Ticket.VerifyURLTemplate, cfg.Ticket.Brand)
	}

	routeService := routes.NewRouteService(client, redisCache, layouts)
	bookingService := booking.NewBookingService(
		client,
		booking.WithMaxSeats(cfg.Booking.MaxSeatsPerBooking),
		booking.WithSubmitGuard(redisCache, cfg.Booking.SubmitGuardTTL()),
		booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithRouteLookup(routeService),
		booking.WithLogger(l),
	)
	authService := auth.NewAuthService(client, redisCache)

	router := bootstrap.NewRouter(
		bootstrap.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			CookieName:     cfg.Session.CookieName,
			Sessions:       redisCache,
			Logger:         l,
			Ready:          redisCache.Ping,
		},
		api.NewSeatHandler(layouts, cfg.Booking.MaxSeatsPerBooking),
		api.NewRouteHandler(routeService),
		api.NewBookingHandler(bookingService, ledger, renderer),
		api.NewAuthHandler(authService, cfg.Session.CookieName, int(cfg.Session.TTL()/time.Second)),
	)

	l.Info("[app] starting", "addr", cfg.HTTP.Address, "api", cfg.API.BaseURL, "ledger", cfg.Database.Enabled())
	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router, time.Duration(cfg.HTTP.ShutdownSeconds)*time.Second); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvasilkov/skybook-go/internal/config"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/postgres"
	"github.com/dvasilkov/skybook-go/internal/redis"
	postgresrepo "github.com/dvasilkov/skybook-go/internal/repository/postgres"
	redisrepo "github.com/dvasilkov/skybook-go/internal/repository/redis"
	"github.com/dvasilkov/skybook-go/internal/service"
	"github.com/dvasilkov/skybook-go/internal/service/booking"
	httpgin "github.com/dvasilkov/skybook-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	producer   *kafka.Producer
	cache      *redisrepo.Cache
	pubsub     *redisrepo.FlightsPubSub
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: cfg.Postgres.DSN()})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewFlightsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "booking", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, idempotencyStore, producer, service.Config{
		Booking: booking.Config{SeatHoldTTL: cfg.Booking.SeatHoldTTL},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, cfg.Auth.JWTSecret, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		producer: producer,
		cache:    cache,
		pubsub:   pubsub,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Flight-changed subscriber: every instance drops the cached
	// summary for a changed flight, whichever instance published the
	// update.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, flightID int64) {
			if err := a.cache.InvalidateFlight(ctx, flightID); err != nil {
				a.logger.Warn("failed to invalidate flight summary", "flight_id", flightID, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("flights subscriber: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.producer.Close(); err != nil {
			a.logger.Error("failed to close kafka producer", "error", err)
		}
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

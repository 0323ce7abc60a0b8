package service

import (
	postgres "github.com/dvasilkov/skybook-go/internal/repository/postgres"
	redis "github.com/dvasilkov/skybook-go/internal/repository/redis"
	"github.com/dvasilkov/skybook-go/internal/service/admin"
	"github.com/dvasilkov/skybook-go/internal/service/booking"
	"github.com/dvasilkov/skybook-go/internal/service/checkin"
	"github.com/dvasilkov/skybook-go/internal/service/flights"
	"github.com/dvasilkov/skybook-go/internal/service/payments"
	"github.com/dvasilkov/skybook-go/internal/service/profiles"
)

type Services struct {
	Flights  *flights.Service
	Booking  *booking.Service
	Payments *payments.Service
	CheckIn  *checkin.Service
	Profiles *profiles.Service
	Admin    *admin.Service
}

type Config struct {
	Flights flights.Config
	Booking booking.Config
}

// Notifier is the event sink shared by every service; see the per-
// package Notifier interfaces it satisfies.
type Notifier = booking.Notifier

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.FlightsPubSub,
	limiter *redis.SlidingWindowLimiter,
	idem *redis.IdempotencyStore,
	notifier Notifier,
	cfg Config,
) *Services {
	return &Services{
		Flights:  flights.New(store.Flights(), cache, cfg.Flights),
		Booking:  booking.New(store.Bookings(), limiter, notifier, cfg.Booking),
		Payments: payments.New(store.Payments(), idem, notifier),
		CheckIn:  checkin.New(store.CheckIns(), notifier),
		Profiles: profiles.New(store.Profiles()),
		Admin:    admin.New(store.Directory(), store.Bookings(), cache, pubsub, notifier),
	}
}

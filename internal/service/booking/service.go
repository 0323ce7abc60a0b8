package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
	redisrepo "github.com/dvasilkov/skybook-go/internal/repository/redis"
)

// Store is the booking persistence surface the service needs. The
// concrete implementation runs Create inside a serializable
// transaction; the service never sees partial state.
type Store interface {
	Create(ctx context.Context, userID, flightID int64, selections []domain.SeatSelection, holdTTL time.Duration, now time.Time) (*domain.BookingWithTickets, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithTickets(ctx context.Context, id int64) (*domain.BookingWithTickets, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, upcoming bool, now time.Time) ([]domain.BookingDetail, error)
	AnnouncementsForUser(ctx context.Context, userID int64, now time.Time) ([]domain.Announcement, error)
}

// Notifier publishes notification events after state changes. A nil
// Notifier disables publishing.
type Notifier interface {
	Publish(ctx context.Context, key string, event kafka.NotificationEvent) error
}

type Config struct {
	SeatHoldTTL time.Duration
}

type Service struct {
	store    Store
	limiter  *redisrepo.SlidingWindowLimiter
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func New(store Store, limiter *redisrepo.SlidingWindowLimiter, notifier Notifier, cfg Config) *Service {
	if cfg.SeatHoldTTL <= 0 {
		cfg.SeatHoldTTL = 10 * time.Minute
	}

	return &Service{
		store:    store,
		limiter:  limiter,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create books the requested seats for the user and starts the seat
// hold. Expired holds on the flight are swept before availability is
// computed, inside the same atomic unit as the reservation itself.
//
// Parameters:
//   - ctx: request-scoped context.
//   - userID: the authenticated booking owner.
//   - flightID: the flight to book on.
//   - selections: ordered (profile, seat) pairs.
//
// Returns:
//   - *domain.BookingWithTickets: the created booking with tickets.
//   - error: booking.ErrFlightNotFound if the flight does not exist.
//   - error: booking.ErrProfileRequired if the user has no profile.
//   - error: booking.SeatTakenError if a requested seat is occupied.
//   - error: booking.ProfileNotOwnedError for a bad profile reference.
//   - error: booking.ErrRateLimited if the user books too fast.
func (s *Service) Create(
	ctx context.Context,
	userID, flightID int64,
	selections []domain.SeatSelection,
) (*domain.BookingWithTickets, error) {
	const op = "service.booking.Create"

	if len(selections) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSelections)
	}

	if s.limiter != nil {
		ok, _, _, err := s.limiter.Allow(ctx, strconv.FormatInt(userID, 10))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, ErrRateLimited)
		}
	}

	out, err := s.store.Create(ctx, userID, flightID, selections, s.cfg.SeatHoldTTL, s.now())
	if err != nil {
		var seatErr repository.SeatTakenError
		if errors.As(err, &seatErr) {
			return nil, fmt.Errorf("%s: %w", op, SeatTakenError{Seat: seatErr.Seat})
		}

		var profileErr repository.ProfileNotOwnedError
		if errors.As(err, &profileErr) {
			return nil, fmt.Errorf("%s: %w", op, ProfileNotOwnedError{ProfileID: profileErr.ProfileID})
		}

		if errors.Is(err, repository.ErrProfileRequired) {
			return nil, fmt.Errorf("%s: %w", op, ErrProfileRequired)
		}

		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, out.Booking.PNR, kafka.NotificationEvent{
			Type:      kafka.EventBookingCreated,
			UserID:    userID,
			BookingID: out.Booking.ID,
			PNR:       out.Booking.PNR,
			FlightID:  flightID,
			ExpiresAt: out.Booking.SeatHoldExpiresAt,
		})
	}

	return out, nil
}

// Get retrieves a booking with its tickets, enforcing ownership for
// passengers. Staff may read any booking.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the booking does not exist.
//   - error: booking.ErrForbidden if it belongs to another user.
func (s *Service) Get(ctx context.Context, id, requesterID int64, role domain.Role) (*domain.BookingWithTickets, error) {
	const op = "service.booking.Get"

	out, err := s.store.GetWithTickets(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if role != domain.RoleStaff && out.Booking.UserID != requesterID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return out, nil
}

// Cancel sets the booking to CANCELLED. When requesterID is non-nil the
// caller must own the booking; staff callers pass nil and may cancel
// any booking. Cancelling an already-cancelled booking succeeds.
//
// Returns:
//   - *domain.Booking: the cancelled booking.
//   - error: booking.ErrBookingNotFound if the booking does not exist.
//   - error: booking.ErrForbidden if it belongs to another user.
func (s *Service) Cancel(ctx context.Context, id int64, requesterID *int64) (*domain.Booking, error) {
	const op = "service.booking.Cancel"

	b, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if requesterID != nil && b.UserID != *requesterID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	out, err := s.store.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, out.PNR, kafka.NotificationEvent{
			Type:      kafka.EventBookingCancelled,
			UserID:    out.UserID,
			BookingID: out.ID,
			PNR:       out.PNR,
			FlightID:  out.FlightID,
		})
	}

	return out, nil
}

// ListByUser returns the user's trips. Upcoming selects flights
// departing strictly after now; otherwise strictly before now. A flight
// departing at exactly the current instant lands in neither bucket.
func (s *Service) ListByUser(ctx context.Context, userID int64, upcoming bool) ([]domain.BookingDetail, error) {
	const op = "service.booking.ListByUser"

	out, err := s.store.ListByUser(ctx, userID, upcoming, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Announcements returns announcements for the user's upcoming flights,
// newest first.
func (s *Service) Announcements(ctx context.Context, userID int64) ([]domain.Announcement, error) {
	const op = "service.booking.Announcements"

	out, err := s.store.AnnouncementsForUser(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
	postgresrepo "github.com/dvasilkov/skybook-go/internal/repository/postgres"
	redisrepo "github.com/dvasilkov/skybook-go/internal/repository/redis"
)

// Directory is the staff write surface over airplanes, flights and
// announcements.
type Directory interface {
	CreateAirplane(ctx context.Context, a domain.Airplane) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	CreateFlight(ctx context.Context, f domain.Flight) (*domain.Flight, error)
	UpdateFlight(ctx context.Context, id int64, patch postgresrepo.FlightPatch) (*domain.Flight, error)
	CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
}

// Bookings is the staff surface over passenger bookings.
type Bookings interface {
	ListAll(ctx context.Context, flightID int64) ([]domain.BookingWithTickets, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	ReassignSeat(ctx context.Context, bookingID, ticketID int64, newSeat string, now time.Time) (*domain.Ticket, error)
}

// Notifier publishes notification events after state changes. A nil
// Notifier disables publishing.
type Notifier interface {
	Publish(ctx context.Context, key string, event kafka.NotificationEvent) error
}

type Service struct {
	directory Directory
	bookings  Bookings
	cache     *redisrepo.Cache
	pubsub    *redisrepo.FlightsPubSub
	notifier  Notifier
	now       func() time.Time
}

func New(
	directory Directory,
	bookings Bookings,
	cache *redisrepo.Cache,
	pubsub *redisrepo.FlightsPubSub,
	notifier Notifier,
) *Service {
	return &Service{
		directory: directory,
		bookings:  bookings,
		cache:     cache,
		pubsub:    pubsub,
		notifier:  notifier,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateAirplane validates the cabin template and registers the
// airplane. Total seats is derived from the template grid.
//
// Returns:
//   - error: admin.InvalidTemplateError for an unusable template.
//   - error: admin.ErrAirplaneConflict on a duplicate registration.
func (s *Service) CreateAirplane(ctx context.Context, a domain.Airplane) (*domain.Airplane, error) {
	const op = "service.admin.CreateAirplane"

	tpl := a.SeatTemplate
	if tpl.Rows <= 0 || tpl.SeatsPerRow <= 0 || tpl.SeatsPerRow > domain.MaxSeatsPerRow {
		return nil, fmt.Errorf("%s: %w", op, InvalidTemplateError{Template: tpl})
	}

	a.TotalSeats = tpl.Rows * tpl.SeatsPerRow

	out, err := s.directory.CreateAirplane(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrAirplaneConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateAirplanes(ctx)
	}

	return out, nil
}

// ListAirplanes returns all registered airplanes, briefly cached.
func (s *Service) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	const op = "service.admin.ListAirplanes"

	if s.cache == nil {
		out, err := s.directory.ListAirplanes(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyAirplanes(),
		60*time.Second,
		func(ctx context.Context) ([]domain.Airplane, error) {
			return s.directory.ListAirplanes(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CreateFlight persists a new flight in SCHEDULED status unless one is
// supplied.
//
// Returns:
//   - error: admin.ErrFlightConflict on a duplicate flight number.
//   - error: admin.ErrBadReference for an unknown airport or airplane.
func (s *Service) CreateFlight(ctx context.Context, f domain.Flight) (*domain.Flight, error) {
	const op = "service.admin.CreateFlight"

	if f.Status == "" {
		f.Status = domain.FlightScheduled
	}

	out, err := s.directory.CreateFlight(ctx, f)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightConflict)
		}

		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBadReference)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// UpdateFlight applies a partial update; only supplied fields change.
//
// Returns:
//   - error: admin.ErrFlightNotFound if the flight does not exist.
//   - error: admin.ErrFlightConflict on a duplicate flight number.
func (s *Service) UpdateFlight(ctx context.Context, id int64, patch postgresrepo.FlightPatch) (*domain.Flight, error) {
	const op = "service.admin.UpdateFlight"

	out, err := s.directory.UpdateFlight(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlight(ctx, id)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishFlightChanged(ctx, id)
	}

	return out, nil
}

// CreateAnnouncement records an announcement against a flight and fans
// it out on the notifications topic.
//
// Returns:
//   - error: admin.ErrFlightNotFound if the flight does not exist.
func (s *Service) CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	const op = "service.admin.CreateAnnouncement"

	out, err := s.directory.CreateAnnouncement(ctx, a)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, strconv.FormatInt(out.FlightID, 10), kafka.NotificationEvent{
			Type:     kafka.EventAnnouncement,
			FlightID: out.FlightID,
			Message:  out.Message,
		})
	}

	return out, nil
}

// ListBookings returns all bookings with their tickets, optionally
// filtered by flight. A zero flightID means no filter.
func (s *Service) ListBookings(ctx context.Context, flightID int64) ([]domain.BookingWithTickets, error) {
	const op = "service.admin.ListBookings"

	out, err := s.bookings.ListAll(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CancelBooking is the staff-forced cancellation; no ownership check.
//
// Returns:
//   - error: admin.ErrBookingNotFound if the booking does not exist.
func (s *Service) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "service.admin.CancelBooking"

	out, err := s.bookings.Cancel(ctx, id)
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

// ReassignSeat moves a ticket to a new seat after checking the seat is
// free among non-cancelled tickets on the flight. Immediate and
// unconditional once the conflict check passes; no hold is created.
//
// Returns:
//   - *domain.Ticket: the updated ticket.
//   - error: admin.ErrBookingNotFound or admin.ErrTicketNotFound for bad ids.
//   - error: admin.SeatTakenError if the seat is occupied.
func (s *Service) ReassignSeat(ctx context.Context, bookingID, ticketID int64, newSeat string) (*domain.Ticket, error) {
	const op = "service.admin.ReassignSeat"

	out, err := s.bookings.ReassignSeat(ctx, bookingID, ticketID, newSeat, s.now())
	if err != nil {
		var seatErr repository.SeatTakenError
		if errors.As(err, &seatErr) {
			return nil, fmt.Errorf("%s: %w", op, SeatTakenError{Seat: seatErr.Seat})
		}

		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

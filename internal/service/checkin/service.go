package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

// Check-in window bounds, both inclusive.
const (
	windowOpen  = 24 * time.Hour
	windowClose = 1 * time.Hour
)

// Store is the check-in persistence surface.
type Store interface {
	TicketContext(ctx context.Context, ticketID int64) (*domain.TicketContext, error)
	Create(ctx context.Context, ticketID int64, qrCode string) (*domain.CheckIn, error)
}

// Notifier publishes notification events after state changes. A nil
// Notifier disables publishing.
type Notifier interface {
	Publish(ctx context.Context, key string, event kafka.NotificationEvent) error
}

type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func New(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckIn issues a boarding pass for a ticket. The window runs from 24
// hours before scheduled departure down to 1 hour before, inclusive at
// both ends. Checking in an already checked-in ticket returns the
// existing record unchanged.
//
// Parameters:
//   - ctx: request-scoped context.
//   - ticketID: the ticket to check in.
//   - requesterID: the authenticated user; must own the ticket's booking.
//
// Returns:
//   - *domain.CheckIn: the stored check-in.
//   - *domain.BoardingPass: the decoded credential payload.
//   - error: checkin.ErrTicketNotFound if the ticket does not exist.
//   - error: checkin.ErrForbidden if the booking is another user's.
//   - error: checkin.ErrTooEarly or checkin.ErrTooLate outside the window.
func (s *Service) CheckIn(ctx context.Context, ticketID, requesterID int64) (*domain.CheckIn, *domain.BoardingPass, error) {
	const op = "service.checkin.CheckIn"

	tc, err := s.store.TicketContext(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if tc.Booking.UserID != requesterID {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	untilDeparture := tc.Flight.ScheduledDeparture.Sub(s.now())
	if untilDeparture > windowOpen {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrTooEarly)
	}
	if untilDeparture < windowClose {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrTooLate)
	}

	pass := domain.BoardingPass{
		TicketNumber:  tc.Ticket.TicketNumber,
		PNR:           tc.Booking.PNR,
		FlightNumber:  tc.Flight.FlightNumber,
		PassengerName: tc.Passenger.FullName,
		Seat:          tc.Ticket.SeatNumber,
		Gate:          tc.Flight.Gate,
		Terminal:      tc.Flight.Terminal,
		Departure:     tc.Flight.ScheduledDeparture.Format(time.RFC3339),
	}

	payload, err := json.Marshal(pass)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	ci, err := s.store.Create(ctx, ticketID, string(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	// An earlier check-in wins the race; return its payload, not ours.
	stored := pass
	if ci.QRCode != string(payload) {
		if err := json.Unmarshal([]byte(ci.QRCode), &stored); err != nil {
			stored = pass
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, tc.Booking.PNR, kafka.NotificationEvent{
			Type:      kafka.EventCheckInCompleted,
			UserID:    tc.Booking.UserID,
			BookingID: tc.Booking.ID,
			PNR:       tc.Booking.PNR,
			FlightID:  tc.Flight.ID,
			TicketID:  ticketID,
			Seat:      tc.Ticket.SeatNumber,
		})
	}

	return ci, &stored, nil
}

package checkin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) TicketContext(ctx context.Context, ticketID int64) (*domain.TicketContext, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketContext), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, ticketID int64, qrCode string) (*domain.CheckIn, error) {
	args := m.Called(ctx, ticketID, qrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckIn), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, key string, event kafka.NotificationEvent) error {
	args := m.Called(ctx, key, event)
	return args.Error(0)
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ticketCtx(departure time.Time) *domain.TicketContext {
	return &domain.TicketContext{
		Ticket:  domain.Ticket{ID: 10, TicketNumber: "TKT1234567", SeatNumber: "12A"},
		Booking: domain.Booking{ID: 42, UserID: 5, PNR: "AB12CD"},
		Flight: domain.Flight{
			ID:                 3,
			FlightNumber:       "SB101",
			ScheduledDeparture: departure,
			Gate:               "B4",
			Terminal:           "2",
		},
		Passenger: domain.PassengerProfile{ID: 7, FullName: "Alex Doe"},
	}
}

func newTestService(store Store, notifier Notifier) *Service {
	return New(store, notifier).WithClock(func() time.Time { return now })
}

func TestCheckIn_Success(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	departure := now.Add(5 * time.Hour)
	expected := domain.BoardingPass{
		TicketNumber:  "TKT1234567",
		PNR:           "AB12CD",
		FlightNumber:  "SB101",
		PassengerName: "Alex Doe",
		Seat:          "12A",
		Gate:          "B4",
		Terminal:      "2",
		Departure:     departure.Format(time.RFC3339),
	}
	payload, merr := json.Marshal(expected)
	require.NoError(t, merr)

	store.On("TicketContext", ctx, int64(10)).Return(ticketCtx(departure), nil).Once()
	store.On("Create", ctx, int64(10), string(payload)).
		Return(&domain.CheckIn{ID: 1, TicketID: 10, QRCode: string(payload), CheckedInAt: now}, nil).Once()
	notifier.On("Publish", ctx, "AB12CD", mock.MatchedBy(func(ev kafka.NotificationEvent) bool {
		return ev.Type == kafka.EventCheckInCompleted && ev.TicketID == 10
	})).Return(nil).Once()

	ci, pass, err := svc.CheckIn(ctx, 10, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(10), ci.TicketID)
	assert.Equal(t, "TKT1234567", pass.TicketNumber)
	assert.Equal(t, "AB12CD", pass.PNR)
	assert.Equal(t, "SB101", pass.FlightNumber)
	assert.Equal(t, "Alex Doe", pass.PassengerName)
	assert.Equal(t, "12A", pass.Seat)
	assert.Equal(t, departure.Format(time.RFC3339), pass.Departure)

	var decoded domain.BoardingPass
	require.NoError(t, json.Unmarshal([]byte(ci.QRCode), &decoded))
	assert.Equal(t, *pass, decoded)

	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCheckIn_WindowBoundaries(t *testing.T) {
	testCases := []struct {
		name      string
		departure time.Time
		wantErr   error
	}{
		{"exactly 24h before is allowed", now.Add(24 * time.Hour), nil},
		{"exactly 1h before is allowed", now.Add(1 * time.Hour), nil},
		{"just over 24h is too early", now.Add(24*time.Hour + time.Second), ErrTooEarly},
		{"just under 1h is too late", now.Add(1*time.Hour - time.Second), ErrTooLate},
		{"already departed is too late", now.Add(-1 * time.Hour), ErrTooLate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockStore{}
			svc := newTestService(store, nil)
			ctx := context.Background()

			store.On("TicketContext", ctx, int64(10)).Return(ticketCtx(tc.departure), nil).Once()
			if tc.wantErr == nil {
				store.On("Create", ctx, int64(10), mock.AnythingOfType("string")).
					Return(&domain.CheckIn{ID: 1, TicketID: 10}, nil).Once()
			}

			_, _, err := svc.CheckIn(ctx, 10, 5)

			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
				store.AssertNotCalled(t, "Create")
			}
		})
	}
}

func TestCheckIn_Forbidden(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("TicketContext", ctx, int64(10)).Return(ticketCtx(now.Add(5*time.Hour)), nil).Once()

	_, _, err := svc.CheckIn(ctx, 10, 99)

	assert.ErrorIs(t, err, ErrForbidden)
	store.AssertNotCalled(t, "Create")
}

func TestCheckIn_TicketNotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("TicketContext", ctx, int64(10)).Return(nil, repository.ErrNotFound).Once()

	_, _, err := svc.CheckIn(ctx, 10, 5)

	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestCheckIn_Idempotent(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	departure := now.Add(5 * time.Hour)
	tc := ticketCtx(departure)
	store.On("TicketContext", ctx, int64(10)).Return(tc, nil).Once()

	// A prior check-in exists; the store hands back its payload.
	earlier := domain.BoardingPass{
		TicketNumber:  "TKT1234567",
		PNR:           "AB12CD",
		FlightNumber:  "SB101",
		PassengerName: "Alex Doe",
		Seat:          "12A",
		Gate:          "B1", // gate changed since the first check-in
		Terminal:      "2",
		Departure:     departure.Format(time.RFC3339),
	}
	earlierPayload, err := json.Marshal(earlier)
	require.NoError(t, err)

	store.On("Create", ctx, int64(10), mock.AnythingOfType("string")).
		Return(&domain.CheckIn{ID: 1, TicketID: 10, QRCode: string(earlierPayload)}, nil).Once()

	_, pass, err := svc.CheckIn(ctx, 10, 5)

	require.NoError(t, err)
	assert.Equal(t, earlier, *pass)
}

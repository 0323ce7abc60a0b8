package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
	postgresrepo "github.com/dvasilkov/skybook-go/internal/repository/postgres"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CreateAirplane(ctx context.Context, a domain.Airplane) (*domain.Airplane, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockDirectory) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockDirectory) CreateFlight(ctx context.Context, f domain.Flight) (*domain.Flight, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockDirectory) UpdateFlight(ctx context.Context, id int64, patch postgresrepo.FlightPatch) (*domain.Flight, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockDirectory) CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}

type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) ListAll(ctx context.Context, flightID int64) ([]domain.BookingWithTickets, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithTickets), args.Error(1)
}

func (m *MockBookings) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookings) ReassignSeat(ctx context.Context, bookingID, ticketID int64, newSeat string, now time.Time) (*domain.Ticket, error) {
	args := m.Called(ctx, bookingID, ticketID, newSeat, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, key string, event kafka.NotificationEvent) error {
	args := m.Called(ctx, key, event)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(directory Directory, bookings Bookings, notifier Notifier) *Service {
	return New(directory, bookings, nil, nil, notifier).
		WithClock(func() time.Time { return fixedNow })
}

func TestCreateAirplane_DerivesTotalSeats(t *testing.T) {
	directory := &MockDirectory{}
	svc := newTestService(directory, nil, nil)
	ctx := context.Background()

	in := domain.Airplane{
		Model:              "A320neo",
		RegistrationNumber: "SB-1001",
		SeatTemplate:       domain.SeatTemplate{Rows: 30, SeatsPerRow: 6},
	}
	directory.On("CreateAirplane", ctx, mock.MatchedBy(func(a domain.Airplane) bool {
		return a.TotalSeats == 180
	})).Return(&domain.Airplane{ID: 1, Model: "A320neo", TotalSeats: 180}, nil).Once()

	out, err := svc.CreateAirplane(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, 180, out.TotalSeats)
	directory.AssertExpectations(t)
}

func TestCreateAirplane_InvalidTemplate(t *testing.T) {
	testCases := []struct {
		name string
		tpl  domain.SeatTemplate
	}{
		{"zero rows", domain.SeatTemplate{Rows: 0, SeatsPerRow: 6}},
		{"negative rows", domain.SeatTemplate{Rows: -1, SeatsPerRow: 6}},
		{"zero seats per row", domain.SeatTemplate{Rows: 30, SeatsPerRow: 0}},
		{"row wider than letters", domain.SeatTemplate{Rows: 30, SeatsPerRow: domain.MaxSeatsPerRow + 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			directory := &MockDirectory{}
			svc := newTestService(directory, nil, nil)

			_, err := svc.CreateAirplane(context.Background(), domain.Airplane{SeatTemplate: tc.tpl})

			var tplErr InvalidTemplateError
			assert.ErrorAs(t, err, &tplErr)
			assert.Equal(t, tc.tpl, tplErr.Template)
			directory.AssertNotCalled(t, "CreateAirplane")
		})
	}
}

func TestCreateAirplane_DuplicateRegistration(t *testing.T) {
	directory := &MockDirectory{}
	svc := newTestService(directory, nil, nil)
	ctx := context.Background()

	directory.On("CreateAirplane", ctx, mock.Anything).Return(nil, repository.ErrConflict).Once()

	_, err := svc.CreateAirplane(ctx, domain.Airplane{
		SeatTemplate: domain.SeatTemplate{Rows: 10, SeatsPerRow: 4},
	})

	assert.ErrorIs(t, err, ErrAirplaneConflict)
}

func TestCreateFlight_DefaultsToScheduled(t *testing.T) {
	directory := &MockDirectory{}
	svc := newTestService(directory, nil, nil)
	ctx := context.Background()

	directory.On("CreateFlight", ctx, mock.MatchedBy(func(f domain.Flight) bool {
		return f.Status == domain.FlightScheduled
	})).Return(&domain.Flight{ID: 1, Status: domain.FlightScheduled}, nil).Once()

	out, err := svc.CreateFlight(ctx, domain.Flight{FlightNumber: "SB101"})

	require.NoError(t, err)
	assert.Equal(t, domain.FlightScheduled, out.Status)
	directory.AssertExpectations(t)
}

func TestCreateFlight_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{"duplicate flight number", repository.ErrConflict, ErrFlightConflict},
		{"unknown airport or airplane", repository.ErrNotFound, ErrBadReference},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			directory := &MockDirectory{}
			svc := newTestService(directory, nil, nil)
			ctx := context.Background()

			directory.On("CreateFlight", ctx, mock.Anything).Return(nil, tc.storeErr).Once()

			_, err := svc.CreateFlight(ctx, domain.Flight{FlightNumber: "SB101"})

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateFlight_NotFound(t *testing.T) {
	directory := &MockDirectory{}
	svc := newTestService(directory, nil, nil)
	ctx := context.Background()

	directory.On("UpdateFlight", ctx, int64(9), mock.Anything).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.UpdateFlight(ctx, 9, postgresrepo.FlightPatch{})

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestUpdateFlight_AppliesPatch(t *testing.T) {
	directory := &MockDirectory{}
	svc := newTestService(directory, nil, nil)
	ctx := context.Background()

	gate := "C7"
	status := domain.FlightDelayed
	patch := postgresrepo.FlightPatch{Gate: &gate, Status: &status}
	directory.On("UpdateFlight", ctx, int64(3), patch).
		Return(&domain.Flight{ID: 3, Gate: "C7", Status: domain.FlightDelayed}, nil).Once()

	out, err := svc.UpdateFlight(ctx, 3, patch)

	require.NoError(t, err)
	assert.Equal(t, "C7", out.Gate)
	assert.Equal(t, domain.FlightDelayed, out.Status)
}

func TestCreateAnnouncement_Publishes(t *testing.T) {
	directory := &MockDirectory{}
	notifier := &MockNotifier{}
	svc := newTestService(directory, nil, notifier)
	ctx := context.Background()

	in := domain.Announcement{FlightID: 3, Type: domain.AnnouncementDelay, Message: "Delayed 40 minutes"}
	directory.On("CreateAnnouncement", ctx, in).
		Return(&domain.Announcement{ID: 1, FlightID: 3, Type: domain.AnnouncementDelay, Message: "Delayed 40 minutes"}, nil).Once()
	notifier.On("Publish", ctx, "3", mock.MatchedBy(func(ev kafka.NotificationEvent) bool {
		return ev.Type == kafka.EventAnnouncement && ev.FlightID == 3 && ev.Message == "Delayed 40 minutes"
	})).Return(nil).Once()

	_, err := svc.CreateAnnouncement(ctx, in)

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestCreateAnnouncement_UnknownFlight(t *testing.T) {
	directory := &MockDirectory{}
	notifier := &MockNotifier{}
	svc := newTestService(directory, nil, notifier)
	ctx := context.Background()

	directory.On("CreateAnnouncement", ctx, mock.Anything).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.CreateAnnouncement(ctx, domain.Announcement{FlightID: 99})

	assert.ErrorIs(t, err, ErrFlightNotFound)
	notifier.AssertNotCalled(t, "Publish")
}

func TestCancelBooking_Publishes(t *testing.T) {
	bookings := &MockBookings{}
	notifier := &MockNotifier{}
	svc := newTestService(nil, bookings, notifier)
	ctx := context.Background()

	bookings.On("Cancel", ctx, int64(42)).
		Return(&domain.Booking{ID: 42, UserID: 5, PNR: "AB12CD", FlightID: 3}, nil).Once()
	notifier.On("Publish", ctx, "AB12CD", mock.MatchedBy(func(ev kafka.NotificationEvent) bool {
		return ev.Type == kafka.EventBookingCancelled && ev.BookingID == 42
	})).Return(nil).Once()

	out, err := svc.CancelBooking(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, "AB12CD", out.PNR)
	notifier.AssertExpectations(t)
}

func TestCancelBooking_NotFound(t *testing.T) {
	bookings := &MockBookings{}
	svc := newTestService(nil, bookings, nil)
	ctx := context.Background()

	bookings.On("Cancel", ctx, int64(42)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.CancelBooking(ctx, 42)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReassignSeat_Success(t *testing.T) {
	bookings := &MockBookings{}
	svc := newTestService(nil, bookings, nil)
	ctx := context.Background()

	bookings.On("ReassignSeat", ctx, int64(42), int64(10), "14C", fixedNow).
		Return(&domain.Ticket{ID: 10, SeatNumber: "14C"}, nil).Once()

	out, err := svc.ReassignSeat(ctx, 42, 10, "14C")

	require.NoError(t, err)
	assert.Equal(t, "14C", out.SeatNumber)
	bookings.AssertExpectations(t)
}

func TestReassignSeat_SeatTaken(t *testing.T) {
	bookings := &MockBookings{}
	svc := newTestService(nil, bookings, nil)
	ctx := context.Background()

	bookings.On("ReassignSeat", ctx, int64(42), int64(10), "14C", fixedNow).
		Return(nil, repository.SeatTakenError{Seat: "14C"}).Once()

	_, err := svc.ReassignSeat(ctx, 42, 10, "14C")

	var seatErr SeatTakenError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, "14C", seatErr.Seat)
}

func TestReassignSeat_TicketNotFound(t *testing.T) {
	bookings := &MockBookings{}
	svc := newTestService(nil, bookings, nil)
	ctx := context.Background()

	bookings.On("ReassignSeat", ctx, int64(42), int64(10), "14C", fixedNow).
		Return(nil, repository.ErrNotFound).Once()

	_, err := svc.ReassignSeat(ctx, 42, 10, "14C")

	assert.ErrorIs(t, err, ErrTicketNotFound)
}

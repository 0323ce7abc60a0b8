package booking

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
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, userID, flightID int64, selections []domain.SeatSelection, holdTTL time.Duration, now time.Time) (*domain.BookingWithTickets, error) {
	args := m.Called(ctx, userID, flightID, selections, holdTTL, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingWithTickets), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) GetWithTickets(ctx context.Context, id int64) (*domain.BookingWithTickets, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingWithTickets), args.Error(1)
}

func (m *MockStore) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) ListByUser(ctx context.Context, userID int64, upcoming bool, now time.Time) ([]domain.BookingDetail, error) {
	args := m.Called(ctx, userID, upcoming, now)
	return args.Get(0).([]domain.BookingDetail), args.Error(1)
}

func (m *MockStore) AnnouncementsForUser(ctx context.Context, userID int64, now time.Time) ([]domain.Announcement, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).([]domain.Announcement), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, key string, event kafka.NotificationEvent) error {
	args := m.Called(ctx, key, event)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store Store, notifier Notifier) *Service {
	return New(store, nil, notifier, Config{SeatHoldTTL: 10 * time.Minute}).
		WithClock(func() time.Time { return fixedNow })
}

func TestCreate_Success(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)

	ctx := context.Background()
	selections := []domain.SeatSelection{
		{PassengerProfileID: 7, SeatNumber: "1A"},
		{PassengerProfileID: 8, SeatNumber: "1B"},
	}
	expiry := fixedNow.Add(10 * time.Minute)
	created := &domain.BookingWithTickets{
		Booking: domain.Booking{
			ID:                42,
			PNR:               "AB12CD",
			UserID:            5,
			FlightID:          3,
			Status:            domain.BookingCreated,
			SeatHoldExpiresAt: &expiry,
		},
		Tickets: []domain.Ticket{
			{ID: 1, SeatNumber: "1A"},
			{ID: 2, SeatNumber: "1B"},
		},
	}

	store.On("Create", ctx, int64(5), int64(3), selections, 10*time.Minute, fixedNow).
		Return(created, nil).Once()
	notifier.On("Publish", ctx, "AB12CD", mock.MatchedBy(func(ev kafka.NotificationEvent) bool {
		return ev.Type == kafka.EventBookingCreated && ev.BookingID == 42
	})).Return(nil).Once()

	out, err := svc.Create(ctx, 5, 3, selections)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCreated, out.Booking.Status)
	assert.Len(t, out.Tickets, 2)

	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreate_NoSelections(t *testing.T) {
	svc := newTestService(&MockStore{}, nil)

	_, err := svc.Create(context.Background(), 5, 3, nil)

	assert.ErrorIs(t, err, ErrNoSelections)
}

func TestCreate_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	selections := []domain.SeatSelection{{PassengerProfileID: 7, SeatNumber: "1A"}}

	testCases := []struct {
		name     string
		storeErr error
		check    func(t *testing.T, err error)
	}{
		{
			name:     "seat taken",
			storeErr: repository.SeatTakenError{Seat: "1A"},
			check: func(t *testing.T, err error) {
				var seatErr SeatTakenError
				require.ErrorAs(t, err, &seatErr)
				assert.Equal(t, "1A", seatErr.Seat)
			},
		},
		{
			name:     "profile not owned",
			storeErr: repository.ProfileNotOwnedError{ProfileID: 9},
			check: func(t *testing.T, err error) {
				var profErr ProfileNotOwnedError
				require.ErrorAs(t, err, &profErr)
				assert.Equal(t, int64(9), profErr.ProfileID)
			},
		},
		{
			name:     "profile required",
			storeErr: repository.ErrProfileRequired,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrProfileRequired)
			},
		},
		{
			name:     "flight not found",
			storeErr: repository.ErrNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrFlightNotFound)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockStore{}
			notifier := &MockNotifier{}
			svc := newTestService(store, notifier)

			store.On("Create", ctx, int64(5), int64(3), selections, 10*time.Minute, fixedNow).
				Return(nil, tc.storeErr).Once()

			_, err := svc.Create(ctx, 5, 3, selections)

			require.Error(t, err)
			tc.check(t, err)
			notifier.AssertNotCalled(t, "Publish")
		})
	}
}

func TestGet_OwnershipEnforced(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	owned := &domain.BookingWithTickets{Booking: domain.Booking{ID: 42, UserID: 5}}
	store.On("GetWithTickets", ctx, int64(42)).Return(owned, nil)

	_, err := svc.Get(ctx, 42, 6, domain.RolePassenger)
	assert.ErrorIs(t, err, ErrForbidden)

	out, err := svc.Get(ctx, 42, 5, domain.RolePassenger)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.Booking.ID)

	// staff reads anyone's booking
	out, err = svc.Get(ctx, 42, 999, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.Booking.ID)
}

func TestCancel_OwnerOnly(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("Get", ctx, int64(42)).Return(&domain.Booking{ID: 42, UserID: 5}, nil)

	other := int64(6)
	_, err := svc.Cancel(ctx, 42, &other)
	assert.ErrorIs(t, err, ErrForbidden)
	store.AssertNotCalled(t, "Cancel")
}

func TestCancel_Success(t *testing.T) {
	store := &MockStore{}
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	store.On("Get", ctx, int64(42)).Return(&domain.Booking{ID: 42, UserID: 5, PNR: "AB12CD"}, nil)
	store.On("Cancel", ctx, int64(42)).
		Return(&domain.Booking{ID: 42, UserID: 5, PNR: "AB12CD", Status: domain.BookingCancelled}, nil).Once()
	notifier.On("Publish", ctx, "AB12CD", mock.MatchedBy(func(ev kafka.NotificationEvent) bool {
		return ev.Type == kafka.EventBookingCancelled
	})).Return(nil).Once()

	owner := int64(5)
	out, err := svc.Cancel(ctx, 42, &owner)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, out.Status)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCancel_StaffSkipsOwnershipCheck(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("Get", ctx, int64(42)).Return(&domain.Booking{ID: 42, UserID: 5}, nil)
	store.On("Cancel", ctx, int64(42)).
		Return(&domain.Booking{ID: 42, UserID: 5, Status: domain.BookingCancelled}, nil).Once()

	out, err := svc.Cancel(ctx, 42, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, out.Status)
}

func TestCancel_NotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("Get", ctx, int64(42)).Return(nil, repository.ErrNotFound)

	_, err := svc.Cancel(ctx, 42, nil)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListByUser_PassesClock(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	store.On("ListByUser", ctx, int64(5), true, fixedNow).
		Return([]domain.BookingDetail{}, nil).Once()
	store.On("ListByUser", ctx, int64(5), false, fixedNow).
		Return([]domain.BookingDetail{}, nil).Once()

	_, err := svc.ListByUser(ctx, 5, true)
	require.NoError(t, err)
	_, err = svc.ListByUser(ctx, 5, false)
	require.NoError(t, err)

	store.AssertExpectations(t)
}

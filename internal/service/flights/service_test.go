package flights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Search(ctx context.Context, origin, destination string, date *time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockStore) Detail(ctx context.Context, id int64, now time.Time) (*domain.FlightDetail, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightDetail), args.Error(1)
}

func (m *MockStore) OccupiedSeats(ctx context.Context, flightID int64, now time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, flightID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store Store) *Service {
	return New(store, nil, Config{}).WithClock(func() time.Time { return fixedNow })
}

func TestSearch_PassesFilters(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	want := []domain.Flight{{ID: 1, FlightNumber: "SB101"}}
	store.On("Search", ctx, "JFK", "LAX", &date).Return(want, nil).Once()

	out, err := svc.Search(ctx, "JFK", "LAX", &date)

	require.NoError(t, err)
	assert.Equal(t, want, out)
	store.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Get", ctx, int64(9)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Get(ctx, 9)

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestGet_Success(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Get", ctx, int64(1)).Return(&domain.Flight{ID: 1, FlightNumber: "SB101"}, nil).Once()

	out, err := svc.Get(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "SB101", out.FlightNumber)
}

func TestDetail_UsesClock(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	want := &domain.FlightDetail{
		Flight:         domain.Flight{ID: 1},
		TotalSeats:     180,
		AvailableSeats: 177,
	}
	store.On("Detail", ctx, int64(1), fixedNow).Return(want, nil).Once()

	out, err := svc.Detail(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 177, out.AvailableSeats)
	store.AssertExpectations(t)
}

func TestDetail_NotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Detail", ctx, int64(9), fixedNow).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Detail(ctx, 9)

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestOccupiedSeats_SortedAndHoldAware(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Get", ctx, int64(1)).Return(&domain.Flight{ID: 1}, nil).Once()
	store.On("OccupiedSeats", ctx, int64(1), fixedNow).
		Return(map[string]struct{}{"2C": {}, "1A": {}, "10B": {}}, nil).Once()

	out, err := svc.OccupiedSeats(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"10B", "1A", "2C"}, out)
	store.AssertExpectations(t)
}

func TestOccupiedSeats_FlightNotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Get", ctx, int64(9)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.OccupiedSeats(ctx, 9)

	assert.ErrorIs(t, err, ErrFlightNotFound)
	store.AssertNotCalled(t, "OccupiedSeats")
}

func TestSeatMap_MarksOccupiedFromDetail(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	detail := &domain.FlightDetail{
		Flight: domain.Flight{ID: 1},
		Airplane: domain.Airplane{
			SeatTemplate: domain.SeatTemplate{Rows: 2, SeatsPerRow: 3},
		},
		TotalSeats:    6,
		OccupiedSeats: []string{"1A", "2C"},
	}
	store.On("Detail", ctx, int64(1), fixedNow).Return(detail, nil).Once()

	sm, err := svc.SeatMap(ctx, 1)

	require.NoError(t, err)
	require.Len(t, sm.Rows, 2)

	taken := map[string]bool{}
	free := 0
	for _, row := range sm.Rows {
		for _, seat := range row {
			if seat.Available {
				free++
			} else {
				taken[seat.Seat] = true
			}
		}
	}
	assert.Equal(t, 4, free)
	assert.True(t, taken["1A"])
	assert.True(t, taken["2C"])
}

func TestSeatMap_NotFound(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store)
	ctx := context.Background()

	store.On("Detail", ctx, int64(9), fixedNow).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.SeatMap(ctx, 9)

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetByUser(ctx context.Context, userID int64) (*domain.PassengerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PassengerProfile), args.Error(1)
}

func (m *MockStore) Upsert(ctx context.Context, p domain.PassengerProfile) (*domain.PassengerProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PassengerProfile), args.Error(1)
}

func TestGet_NotFound(t *testing.T) {
	store := &MockStore{}
	svc := New(store)
	ctx := context.Background()

	store.On("GetByUser", ctx, int64(5)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Get(ctx, 5)

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSave_TrimsName(t *testing.T) {
	store := &MockStore{}
	svc := New(store)
	ctx := context.Background()

	store.On("Upsert", ctx, mock.MatchedBy(func(p domain.PassengerProfile) bool {
		return p.FullName == "Alex Doe"
	})).Return(&domain.PassengerProfile{ID: 1, UserID: 5, FullName: "Alex Doe"}, nil).Once()

	out, err := svc.Save(ctx, domain.PassengerProfile{UserID: 5, FullName: "  Alex Doe  "})

	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", out.FullName)
	store.AssertExpectations(t)
}

func TestSave_NameRequired(t *testing.T) {
	store := &MockStore{}
	svc := New(store)

	_, err := svc.Save(context.Background(), domain.PassengerProfile{UserID: 5, FullName: "   "})

	assert.ErrorIs(t, err, ErrNameRequired)
	store.AssertNotCalled(t, "Upsert")
}

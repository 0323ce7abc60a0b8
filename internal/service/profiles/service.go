package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/repository"
)

// Store is the profile persistence surface.
type Store interface {
	GetByUser(ctx context.Context, userID int64) (*domain.PassengerProfile, error)
	Upsert(ctx context.Context, p domain.PassengerProfile) (*domain.PassengerProfile, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Get retrieves the caller's passenger profile.
//
// Returns:
//   - error: profiles.ErrProfileNotFound if the user has no profile yet.
func (s *Service) Get(ctx context.Context, userID int64) (*domain.PassengerProfile, error) {
	const op = "service.profiles.Get"

	p, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Save creates the caller's passenger profile or replaces the existing
// one. A profile is required before the user can book.
//
// Returns:
//   - error: profiles.ErrNameRequired if the full name is blank.
func (s *Service) Save(ctx context.Context, p domain.PassengerProfile) (*domain.PassengerProfile, error) {
	const op = "service.profiles.Save"

	p.FullName = strings.TrimSpace(p.FullName)
	if p.FullName == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNameRequired)
	}

	out, err := s.store.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

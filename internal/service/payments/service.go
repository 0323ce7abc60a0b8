package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dvasilkov/skybook-go/internal/domain"
	"github.com/dvasilkov/skybook-go/internal/kafka"
	"github.com/dvasilkov/skybook-go/internal/repository"
	redisrepo "github.com/dvasilkov/skybook-go/internal/repository/redis"
)

// Store is the payment persistence surface. Process runs its
// check-then-act sequence inside a serializable transaction keyed on
// the caller-supplied token.
type Store interface {
	Process(ctx context.Context, bookingID int64, token string) (*domain.Payment, error)
	GetByToken(ctx context.Context, token string) (*domain.Payment, error)
}

// Notifier publishes notification events after state changes. A nil
// Notifier disables publishing.
type Notifier interface {
	Publish(ctx context.Context, key string, event kafka.NotificationEvent) error
}

type Service struct {
	store    Store
	idem     *redisrepo.IdempotencyStore
	notifier Notifier
}

func New(store Store, idem *redisrepo.IdempotencyStore, notifier Notifier) *Service {
	return &Service{
		store:    store,
		idem:     idem,
		notifier: notifier,
	}
}

// Process records the mock payment attempt for a booking and confirms
// it. The token fully deduplicates submissions: repeating a finished
// token returns the identical payment record. The redis guard only
// short-circuits repeats; the database unique constraint on the token
// remains the source of truth.
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: the booking to pay for.
//   - token: caller-supplied idempotency token.
//
// Returns:
//   - *domain.Payment: the PAID payment record.
//   - error: payments.ErrBookingNotFound if the booking does not exist.
//   - error: payments.ErrBookingCancelled if the booking is cancelled.
//   - error: payments.ErrAlreadyProcessed on a paid booking with a new token.
func (s *Service) Process(ctx context.Context, bookingID int64, token string) (*domain.Payment, error) {
	const op = "service.payments.Process"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	idemKey := redisrepo.KeyIdemPayment(token)

	if s.idem != nil {
		if cached, ok, err := s.idem.GetResult(ctx, idemKey); err == nil && ok {
			var p domain.Payment
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}

		// Best effort. If the lock is unavailable the database
		// serializes the concurrent retries anyway.
		_, _ = s.idem.AcquireLock(ctx, idemKey, 10*time.Second)
	}

	p, err := s.store.Process(ctx, bookingID, token)
	if err != nil {
		// A concurrent retry with the same token can commit first and
		// surface the token's unique constraint instead of a
		// serialization failure. The stored payment is the idempotent
		// answer.
		if errors.Is(err, repository.ErrConflict) {
			if stored, gerr := s.store.GetByToken(ctx, token); gerr == nil {
				if s.idem != nil {
					if b, merr := json.Marshal(stored); merr == nil {
						_ = s.idem.SaveResult(ctx, idemKey, string(b))
					}
				}

				return stored, nil
			}
		}

		if s.idem != nil {
			_ = s.idem.Release(ctx, idemKey)
		}

		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		if errors.Is(err, repository.ErrBookingCancelled) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingCancelled)
		}

		if errors.Is(err, repository.ErrPaymentProcessed) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.idem != nil {
		if b, err := json.Marshal(p); err == nil {
			_ = s.idem.SaveResult(ctx, idemKey, string(b))
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, token, kafka.NotificationEvent{
			Type:      kafka.EventBookingConfirmed,
			BookingID: p.BookingID,
		})
	}

	return p, nil
}

package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	code := RandomCode(PNRLength)

	assert.Len(t, code, PNRLength)
	for _, r := range code {
		assert.Contains(t, codeAlphabet, string(r))
	}

	// Two draws colliding would be a 1-in-36^6 event.
	assert.NotEqual(t, RandomCode(TicketNumberLength), RandomCode(TicketNumberLength))
}

func TestUniqueCode_FirstTry(t *testing.T) {
	calls := 0
	code, err := UniqueCode(context.Background(), PNRLength, func(ctx context.Context, code string) (bool, error) {
		calls++
		return false, nil
	})

	require.NoError(t, err)
	assert.Len(t, code, PNRLength)
	assert.Equal(t, 1, calls)
}

func TestUniqueCode_RetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := UniqueCode(context.Background(), PNRLength, func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil
	})

	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}

func TestUniqueCode_Exhausted(t *testing.T) {
	_, err := UniqueCode(context.Background(), PNRLength, func(ctx context.Context, code string) (bool, error) {
		return true, nil
	})

	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestUniqueCode_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := UniqueCode(context.Background(), PNRLength, func(ctx context.Context, code string) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}

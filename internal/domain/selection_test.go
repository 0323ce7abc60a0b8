package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sel(seats ...string) []SeatSelection {
	out := make([]SeatSelection, 0, len(seats))
	for i, s := range seats {
		out = append(out, SeatSelection{PassengerProfileID: int64(i + 1), SeatNumber: s})
	}
	return out
}

func TestClaimSeats_AllFree(t *testing.T) {
	occupied := map[string]struct{}{}

	seat, ok := ClaimSeats(occupied, sel("1A", "1B", "2C"))

	require.True(t, ok)
	assert.Empty(t, seat)
	assert.Len(t, occupied, 3)
	assert.Contains(t, occupied, "2C")
}

func TestClaimSeats_RejectsOccupied(t *testing.T) {
	occupied := map[string]struct{}{"1B": {}}

	seat, ok := ClaimSeats(occupied, sel("1A", "1B"))

	require.False(t, ok)
	assert.Equal(t, "1B", seat)
}

func TestClaimSeats_RejectsDuplicateWithinRequest(t *testing.T) {
	occupied := map[string]struct{}{}

	// The first 1A claims in array order; its repeat conflicts.
	seat, ok := ClaimSeats(occupied, sel("1A", "2B", "1A"))

	require.False(t, ok)
	assert.Equal(t, "1A", seat)
}

func TestClaimSeats_ClaimsAccrueInOrder(t *testing.T) {
	occupied := map[string]struct{}{}

	_, ok := ClaimSeats(occupied, sel("3C", "3D"))
	require.True(t, ok)

	// A later request over the same set sees the earlier claims.
	seat, ok := ClaimSeats(occupied, sel("3D"))
	require.False(t, ok)
	assert.Equal(t, "3D", seat)
}

func TestClaimSeats_EmptySelections(t *testing.T) {
	occupied := map[string]struct{}{"1A": {}}

	seat, ok := ClaimSeats(occupied, nil)

	require.True(t, ok)
	assert.Empty(t, seat)
	assert.Len(t, occupied, 1)
}

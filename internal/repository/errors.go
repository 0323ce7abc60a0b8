package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrProfileRequired  = errors.New("passenger profile required")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrPaymentProcessed = errors.New("payment already processed")
)

// SeatTakenError reports a seat designator that is already claimed by a
// non-cancelled booking on the flight (or by an earlier selection in
// the same request).
type SeatTakenError struct {
	Seat string
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.Seat)
}

// ProfileNotOwnedError reports a passenger profile reference that does
// not exist or belongs to a different user.
type ProfileNotOwnedError struct {
	ProfileID int64
}

func (e ProfileNotOwnedError) Error() string {
	return fmt.Sprintf("passenger profile %d not found or does not belong to user", e.ProfileID)
}

package booking

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrProfileRequired = errors.New("passenger profile required before booking")
	ErrForbidden       = errors.New("booking belongs to another user")
	ErrNoSelections    = errors.New("no seat selections provided")
	ErrRateLimited     = errors.New("too many booking attempts")
)

type SeatTakenError struct {
	Seat string
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.Seat)
}

type ProfileNotOwnedError struct {
	ProfileID int64
}

func (e ProfileNotOwnedError) Error() string {
	return fmt.Sprintf("passenger profile %d does not belong to the user", e.ProfileID)
}

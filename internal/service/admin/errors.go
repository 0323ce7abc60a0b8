package admin

import (
	"errors"
	"fmt"

	"github.com/dvasilkov/skybook-go/internal/domain"
)

var (
	ErrAirplaneConflict = errors.New("airplane registration already exists")
	ErrFlightConflict   = errors.New("flight number already exists")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrBadReference     = errors.New("referenced airport or airplane does not exist")
)

type InvalidTemplateError struct {
	Template domain.SeatTemplate
}

func (e InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid seat template %dx%d: rows must be positive and seats per row between 1 and %d",
		e.Template.Rows, e.Template.SeatsPerRow, domain.MaxSeatsPerRow)
}

type SeatTakenError struct {
	Seat string
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.Seat)
}

package checkin

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrForbidden      = errors.New("ticket belongs to another user")
	ErrTooEarly       = errors.New("check-in opens 24 hours before departure")
	ErrTooLate        = errors.New("check-in closes 1 hour before departure")
)

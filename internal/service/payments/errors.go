package payments

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingCancelled = errors.New("cannot pay for a cancelled booking")
	ErrAlreadyProcessed = errors.New("payment already processed")
	ErrMissingToken     = errors.New("idempotency token required")
)

package profiles

import "errors"

var (
	ErrProfileNotFound = errors.New("passenger profile not found")
	ErrNameRequired    = errors.New("full name is required")
)

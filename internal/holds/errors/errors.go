package errors

import "errors"

var (
	ErrNotFound = errors.New("hold not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid hold ID format")
)

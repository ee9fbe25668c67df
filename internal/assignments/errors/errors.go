package errors

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid ID format")
)

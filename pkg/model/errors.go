package model

import "errors"

// ErrInvalidWindow is returned for malformed or zero/negative-duration
// time ranges. Surfaced to clients as a 400.
var ErrInvalidWindow = errors.New("invalid time window: start must be before end")

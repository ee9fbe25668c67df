package model

import "time"

// Hold statuses. The transition active -> expired is monotonic: the
// expiry sweep never moves a hold back to active.
const (
	HoldActive  = "active"
	HoldExpired = "expired"
)

// BookingHold is a temporary slot lock created when a customer starts a
// booking flow. Holds are never deleted, only status-transitioned.
type BookingHold struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=active expired"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Due reports whether the hold should be expired as of now.
func (h *BookingHold) Due(now time.Time) bool {
	return h.Status == HoldActive && h.ExpiresAt.Before(now)
}

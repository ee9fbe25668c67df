package model

import "time"

// Booking statuses as written by the booking flow. This service only
// reads bookings; it never transitions them.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is the collaborator record a resource gets assigned to. The
// scheduled window is the default window for assignments that do not
// carry their own.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string    `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ScheduledWindow returns the booking's own time window.
func (b *Booking) ScheduledWindow() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

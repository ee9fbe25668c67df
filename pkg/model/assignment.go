package model

import "time"

// ResourceAssignment binds a resource to a booking for a specific time
// window. Assignments are insert-only: edits re-validate and re-insert,
// and removal happens only when the booking itself is cancelled.
type ResourceAssignment struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID         string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	BookingLineItemID string    `json:"booking_line_item_id,omitempty" bson:"booking_line_item_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID        string    `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	StartTime         time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime           time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Window returns the assignment's scheduled interval.
func (a *ResourceAssignment) Window() Window {
	return Window{Start: a.StartTime, End: a.EndTime}
}

// AssignmentRequest is one entry of a batch assignment. StartTime and
// EndTime are optional; when omitted the booking's scheduled window is
// used.
type AssignmentRequest struct {
	ResourceID        string     `json:"resource_id" validate:"required,mongodb"`
	BookingLineItemID string     `json:"booking_line_item_id,omitempty" validate:"omitempty,mongodb"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	EndTime           *time.Time `json:"end_time,omitempty"`
}

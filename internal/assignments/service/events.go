package service

import "time"

// Event types published to the assignments topic and consumed from the
// bookings topic.
const (
	EventAssignmentCreated  = "assignment.created"
	EventAssignmentsRemoved = "assignments.removed"
	EventBookingCancelled   = "booking.cancelled"
)

type AssignmentCreatedEvent struct {
	AssignmentID string    `json:"assignment_id"`
	BookingID    string    `json:"booking_id"`
	ResourceID   string    `json:"resource_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type AssignmentsRemovedEvent struct {
	BookingID string `json:"booking_id"`
	Removed   int64  `json:"removed"`
}

// BookingCancelledEvent is the payload the booking flow publishes when a
// booking is cancelled. Only the id is needed for the cascade.
type BookingCancelledEvent struct {
	BookingID string `json:"booking_id"`
}

package model

import "time"

// AssignmentLock is an advisory lock preventing concurrent check-then-insert
// on the same resource. The lock collection carries a unique _id and a
// TTL index on expires_at, so a crashed holder cannot wedge a resource.
type AssignmentLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

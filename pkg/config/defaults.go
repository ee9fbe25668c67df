package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "glowbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultHoldTTL           = 15 * time.Minute
	DefaultSweepInterval     = 1 * time.Minute
	DefaultAssignmentLockTTL = 10 * time.Second

	DefaultTopicAssignments = "glowbook.assignments"
	DefaultTopicHolds       = "glowbook.holds"
	DefaultTopicBookings    = "glowbook.bookings"
	DefaultDLQTopic         = "glowbook.dlq"
	DefaultConsumerGroup    = "glowbook-assignments"

	DefaultPaginationLimit = 50
)

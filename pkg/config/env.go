package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvCronSecret = "CRON_SECRET"

	EnvPlatformAdminAPIKey = "PLATFORM_ADMIN_API_KEY"
	EnvProviderAdminAPIKey = "PROVIDER_ADMIN_API_KEY"
	EnvStaffAPIKey         = "STAFF_API_KEY"
	EnvCustomerAPIKey      = "CUSTOMER_API_KEY"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvHoldTTL           = "HOLD_TTL"
	EnvSweepInterval     = "SWEEP_INTERVAL"
	EnvAssignmentLockTTL = "ASSIGNMENT_LOCK_TTL"

	EnvTopicAssignments = "KAFKA_TOPIC_ASSIGNMENTS"
	EnvTopicHolds       = "KAFKA_TOPIC_HOLDS"
	EnvTopicBookings    = "KAFKA_TOPIC_BOOKINGS"
	EnvDLQTopic         = "KAFKA_TOPIC_DLQ"
	EnvConsumerGroup    = "KAFKA_CONSUMER_GROUP"
)

package consumer

import (
	"context"

	"glowbook/internal/assignments/service"
	"glowbook/pkg/config"
	"glowbook/pkg/kafka"
	kafka_config "glowbook/pkg/kafka/config"
	kafka_middleware "glowbook/pkg/kafka/middleware"
)

// BookingCancelledConsumer listens on the bookings topic and removes
// the assignments of every cancelled booking. Removal is idempotent, so
// Kafka's at-least-once delivery is safe here.
type BookingCancelledConsumer struct {
	consumer *kafka.Consumer
	service  service.AssignmentService
	cfg      *config.Config
}

func NewBookingCancelledConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, svc service.AssignmentService) (*BookingCancelledConsumer, error) {
	c := &BookingCancelledConsumer{
		service: svc,
		cfg:     cfg,
	}

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.TopicBookings, cfg.ConsumerGroup, cfg.DLQTopic, c.handle)
	if err != nil {
		return nil, err
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	c.consumer = consumer
	return c, nil
}

func (c *BookingCancelledConsumer) handle(ctx context.Context, msg kafka.Message) error {
	if msg.GetEventType() != service.EventBookingCancelled {
		// Other booking events share the topic; skip them.
		return nil
	}

	var event service.BookingCancelledEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking.cancelled event", err)
	}
	if event.BookingID == "" {
		return kafka.NewPermanentError("booking.cancelled event missing booking_id", nil)
	}

	if _, err := c.service.RemoveForBooking(ctx, event.BookingID); err != nil {
		return kafka.NewTransientError("failed to remove assignments", err)
	}

	return nil
}

// Start blocks until the context is cancelled.
func (c *BookingCancelledConsumer) Start(ctx context.Context) error {
	c.cfg.Log.Info("Booking cancellation consumer starting",
		"topic", c.cfg.TopicBookings,
		"group", c.cfg.ConsumerGroup,
	)
	return c.consumer.Start(ctx)
}

func (c *BookingCancelledConsumer) Close() error {
	return c.consumer.Close()
}

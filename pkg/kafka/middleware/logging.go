package kafka_middleware

import (
	"context"
	"log"
	"time"

	"glowbook/pkg/kafka"
)

// LoggingProducerMiddleware logs every publish with its outcome.
func LoggingProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Printf(
				"[KAFKA PRODUCER] Failed to publish | topic=%s key=%s event_id=%s event_type=%s duration=%s error=%v",
				msg.Topic, msg.Key, msg.GetEventID(), msg.GetEventType(), duration, err,
			)
		} else {
			log.Printf(
				"[KAFKA PRODUCER] Published | topic=%s key=%s event_id=%s event_type=%s duration=%s",
				msg.Topic, msg.Key, msg.GetEventID(), msg.GetEventType(), duration,
			)
		}

		return err
	}
}

// LoggingConsumerMiddleware logs every consumed message with its outcome.
func LoggingConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		log.Printf(
			"[KAFKA CONSUMER] Processing | topic=%s partition=%d offset=%d key=%s event_id=%s event_type=%s",
			msg.Topic, msg.Partition, msg.Offset, msg.Key, msg.GetEventID(), msg.GetEventType(),
		)

		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Printf(
				"[KAFKA CONSUMER] Failed | topic=%s key=%s event_id=%s duration=%s error=%v",
				msg.Topic, msg.Key, msg.GetEventID(), duration, err,
			)
		} else {
			log.Printf(
				"[KAFKA CONSUMER] Processed | topic=%s key=%s event_id=%s duration=%s",
				msg.Topic, msg.Key, msg.GetEventID(), duration,
			)
		}

		return err
	}
}

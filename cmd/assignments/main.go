package main

import (
	"context"
	"errors"
	"sync"

	"glowbook/internal/assignments/consumer"
	"glowbook/internal/assignments/handler"
	"glowbook/internal/assignments/repository"
	"glowbook/internal/assignments/service"
	"glowbook/internal/assignments/validator"
	"glowbook/pkg/app"
	"glowbook/pkg/config"
	"glowbook/pkg/kafka"
	kafka_config "glowbook/pkg/kafka/config"
	kafka_middleware "glowbook/pkg/kafka/middleware"
)

const ServiceName = "assignments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Assignments service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer := initProducer(cfg, kafkaCfg)
	defer producer.Close()

	assignmentService, resourceService := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewResourceHandler(resourceService, assignmentService, cfg.Log),
		handler.NewAssignmentHandler(assignmentService, cfg.Log),
	)

	cancellations := startCancellationConsumer(cfg, kafkaCfg, assignmentService)
	serverApp.RegisterWorker(cancellations)

	serverApp.Run()
}

func initProducer(cfg *config.Config, kafkaCfg *kafka_config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, cfg.TopicAssignments, cfg.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) (service.AssignmentService, service.ResourceService) {
	assignmentValidator := validator.NewAssignmentValidator(cfg.Log)

	assignmentRepo := repository.NewMongoAssignmentRepository(cfg)
	resourceRepo := repository.NewMongoResourceRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewAssignmentLockRepository(cfg)

	assignmentService := service.NewAssignmentService(
		assignmentRepo,
		resourceRepo,
		bookingRepo,
		lockRepo,
		assignmentValidator,
		producer,
		cfg,
	)
	resourceService := service.NewResourceService(
		resourceRepo,
		assignmentValidator,
		cfg,
	)

	cfg.Log.Info("Assignment services initialized", "database", cfg.MongoDatabaseName)
	return assignmentService, resourceService
}

// consumerWorker adapts the consumer lifecycle to the application's
// Worker contract.
type consumerWorker struct {
	cancel   context.CancelFunc
	consumer *consumer.BookingCancelledConsumer
	done     sync.WaitGroup
}

func (w *consumerWorker) Stop() {
	w.cancel()
	w.done.Wait()
	_ = w.consumer.Close()
}

func startCancellationConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, svc service.AssignmentService) *consumerWorker {
	cancelConsumer, err := consumer.NewBookingCancelledConsumer(cfg, kafkaCfg, svc)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking cancellation consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	worker := &consumerWorker{cancel: cancel, consumer: cancelConsumer}

	worker.done.Add(1)
	go func() {
		defer worker.done.Done()
		if err := cancelConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Booking cancellation consumer stopped", "error", err)
		}
	}()

	return worker
}

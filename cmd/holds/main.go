package main

import (
	"glowbook/internal/holds/handler"
	"glowbook/internal/holds/repository"
	"glowbook/internal/holds/service"
	"glowbook/pkg/app"
	"glowbook/pkg/config"
	"glowbook/pkg/kafka"
	kafka_config "glowbook/pkg/kafka/config"
	kafka_middleware "glowbook/pkg/kafka/middleware"
)

const ServiceName = "holds"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Holds service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer := initProducer(cfg, kafkaCfg)
	defer producer.Close()

	holdService := initServices(cfg, producer)

	sweeper := service.NewSweeper(holdService, cfg)
	sweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewHoldHandler(holdService, cfg.Log),
		handler.NewSweepHandler(holdService, cfg.CronSecret, cfg.Log),
	)
	serverApp.RegisterWorker(sweeper)

	serverApp.Run()
}

func initProducer(cfg *config.Config, kafkaCfg *kafka_config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, cfg.TopicHolds, cfg.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.HoldService {
	holdRepo := repository.NewMongoHoldRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	holdService := service.NewHoldService(
		holdRepo,
		bookingRepo,
		producer,
		cfg,
	)

	cfg.Log.Info("Hold service initialized", "database", cfg.MongoDatabaseName)
	return holdService
}

package main

import (
	bookinghandler "innkeep/internal/bookings/handler"
	"innkeep/internal/bookings/repository"
	bookingservice "innkeep/internal/bookings/service"
	"innkeep/internal/bookings/validator"
	"innkeep/internal/catalog"
	dashboardhandler "innkeep/internal/dashboard/handler"
	dashboardrepo "innkeep/internal/dashboard/repository"
	dashboardservice "innkeep/internal/dashboard/service"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/kafka"
	kafka_config "innkeep/pkg/kafka/config"
	kafka_middleware "innkeep/pkg/kafka/middleware"
	"innkeep/pkg/model"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	rooms := loadCatalog(cfg)
	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	bookingService := initBookingService(cfg, rooms, producer)
	dashboardService := initDashboardService(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		bookinghandler.NewBookingHandler(bookingService, rooms, cfg.Log),
		dashboardhandler.NewDashboardHandler(dashboardService, cfg.Log),
	)
	serverApp.Run()
}

func loadCatalog(cfg *config.Config) *catalog.Catalog {
	rooms, err := catalog.Load(cfg.RoomCatalogPath)
	if err != nil {
		cfg.Log.Fatal("Failed to load room catalog", "path", cfg.RoomCatalogPath, "error", err)
	}
	cfg.Log.Info("Room catalog loaded", "room_types", len(rooms.ListAll()))
	return rooms
}

// initProducer builds the lifecycle event producer. Kafka being unavailable
// is not fatal: publishing is best-effort and the service runs without it.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()

	producer, err := kafka.NewProducer(kafkaCfg, model.TopicBookingEvents, model.TopicBookingEventsDLQ)
	if err != nil {
		cfg.Log.Warn("Failed to create Kafka producer, event publishing disabled", "error", err)
		return nil
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	producer.Use(kafka_middleware.MetricsProducerMiddleware())
	cfg.Log.Info("Kafka producer initialized", "topic", model.TopicBookingEvents)
	return producer
}

func initBookingService(cfg *config.Config, rooms *catalog.Catalog, producer *kafka.Producer) bookingservice.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewRoomLockRepository(cfg)

	var publisher bookingservice.EventPublisher
	if producer != nil {
		publisher = producer
	}

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		rooms,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initDashboardService(cfg *config.Config) dashboardservice.DashboardService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	notificationRepo := dashboardrepo.NewMongoNotificationRepository(cfg)

	dashboardService := dashboardservice.NewDashboardService(bookingRepo, notificationRepo, cfg)

	cfg.Log.Info("Dashboard service initialized", "database", cfg.MongoDatabaseName)
	return dashboardService
}

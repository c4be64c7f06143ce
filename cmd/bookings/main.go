package main

import (
	"expostall/internal/bookings/handler"
	"expostall/internal/bookings/repository"
	"expostall/internal/bookings/service"
	"expostall/internal/bookings/validator"
	"expostall/pkg/app"
	"expostall/pkg/config"
	"expostall/pkg/kafka"
	kafkaconfig "expostall/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	layoutRepo := repository.NewMongoLayoutRepository(cfg)
	counterRepo := repository.NewMongoInvoiceCounterRepository(cfg)
	lockRepo := repository.NewMongoExhibitionLockRepository(cfg)
	exhibitionReader := repository.NewMongoExhibitionReader(cfg)
	stallTypeReader := repository.NewMongoStallTypeReader(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		layoutRepo,
		counterRepo,
		lockRepo,
		exhibitionReader,
		stallTypeReader,
		bookingValidator,
		newEventPublisher(cfg),
		cfg,
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func newEventPublisher(cfg *config.Config) service.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return service.NewEventPublisher(nil, cfg.Log)
	}

	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return service.NewEventPublisher(producer, cfg.Log)
}

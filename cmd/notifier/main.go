package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"expostall/internal/bookings/service"
	"expostall/pkg/config"
	"expostall/pkg/kafka"
	kafkaconfig "expostall/pkg/kafka/config"
	"expostall/pkg/logger"
)

const ServiceName = "notifier"

// The notifier tails the booking events topic and fans confirmations out
// to customers. Delivery channels plug in behind handleEvent; for now
// every event is logged, which doubles as an audit trail.
func main() {
	cfg := config.Load(ServiceName)

	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("Notifier requires Kafka, set KAFKA_ENABLED=true")
	}

	consumer, err := kafka.NewConsumer(
		kafkaconfig.Load(),
		cfg.BookingEventsTopic,
		ServiceName,
		cfg.BookingEventsDLQ,
		func(ctx context.Context, msg kafka.Message) error {
			return handleEvent(cfg.Log, msg)
		},
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier started", "topic", cfg.BookingEventsTopic)

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped", "error", err)
	}

	cfg.Log.Info("Notifier shut down")
}

func handleEvent(log *logger.Logger, msg kafka.Message) error {
	eventType := msg.Headers[kafka.HeaderEventType]

	switch eventType {
	case service.EventBookingCreated:
		var event service.BookingCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		log.Info("booking confirmation queued",
			"booking_id", event.BookingID,
			"invoice_number", event.InvoiceNumber,
			"customer_phone", event.CustomerPhone,
			"total_amount", event.TotalAmount)

	case service.EventBookingStatusChanged:
		var event service.BookingStatusChangedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		log.Info("booking status notification queued",
			"booking_id", event.BookingID,
			"from", event.FromStatus,
			"to", event.ToStatus)

	default:
		log.Warn("unknown booking event", "event_type", eventType, "key", msg.Key)
	}

	return nil
}

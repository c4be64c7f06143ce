package service

import (
	"context"
	"time"

	"expostall/pkg/kafka"
	"expostall/pkg/logger"
	"expostall/pkg/model"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingCreatedEvent is published after a booking is persisted.
type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	ExhibitionID  string    `json:"exhibition_id"`
	InvoiceNumber string    `json:"invoice_number"`
	StallIDs      []string  `json:"stall_ids"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	BookingSource string    `json:"booking_source"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingStatusChangedEvent is published after a lifecycle transition.
type BookingStatusChangedEvent struct {
	BookingID     string    `json:"booking_id"`
	ExhibitionID  string    `json:"exhibition_id"`
	InvoiceNumber string    `json:"invoice_number"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	Reason        string    `json:"reason,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// EventPublisher publishes booking lifecycle events. Implementations must
// tolerate being called with a nil producer configuration; events are
// best-effort and never fail the request.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingStatusChanged(ctx context.Context, booking *model.Booking, fromStatus, reason, actor string)
}

type kafkaEventPublisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

// NewEventPublisher wraps a Kafka producer. A nil producer yields a
// publisher that drops everything, for deployments without Kafka.
func NewEventPublisher(producer *kafka.Producer, log *logger.Logger) EventPublisher {
	return &kafkaEventPublisher{producer: producer, logger: log}
}

func (p *kafkaEventPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	if p.producer == nil {
		return
	}

	event := BookingCreatedEvent{
		BookingID:     booking.ID,
		ExhibitionID:  booking.ExhibitionID,
		InvoiceNumber: booking.InvoiceNumber,
		StallIDs:      booking.StallIDs,
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		TotalAmount:   booking.Calculations.TotalAmount,
		Status:        booking.Status,
		BookingSource: booking.BookingSource,
		CreatedAt:     booking.CreatedAt,
	}

	p.publish(ctx, booking.ID, EventBookingCreated, event)
}

func (p *kafkaEventPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking, fromStatus, reason, actor string) {
	if p.producer == nil {
		return
	}

	event := BookingStatusChangedEvent{
		BookingID:     booking.ID,
		ExhibitionID:  booking.ExhibitionID,
		InvoiceNumber: booking.InvoiceNumber,
		FromStatus:    fromStatus,
		ToStatus:      booking.Status,
		Reason:        reason,
		Actor:         actor,
		ChangedAt:     time.Now(),
	}

	p.publish(ctx, booking.ID, EventBookingStatusChanged, event)
}

func (p *kafkaEventPublisher) publish(ctx context.Context, bookingID, eventType string, payload interface{}) {
	msg := kafka.NewMessage().
		WithKey(bookingID).
		WithValue(payload).
		WithEventType(eventType).
		WithSource("bookings").
		WithSchemaVersion("1").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("failed to publish booking event",
			"event_type", eventType,
			"booking_id", bookingID,
			"error", err)
	}
}

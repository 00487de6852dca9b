package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"driveshare-backend/internal/config"
	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "reservation_topic"

	routingKeyCreated       = "reservation.created"
	routingKeyStatusChanged = "reservation.status_changed"
)

// Publisher pushes reservation lifecycle events onto a durable topic
// exchange. Downstream payment and contract workers consume them.
type Publisher struct {
	conn *amqp091.Connection
}

func Connect(cfg config.RabbitMQConfig) (*Publisher, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp091.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}

	logger.Info("Connected to RabbitMQ", "exchange", exchangeName)
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// ReservationEvent is the envelope shared by all reservation events.
type ReservationEvent struct {
	Type           string    `json:"type"`
	ReservationID  int32     `json:"reservation_id"`
	Reference      string    `json:"reference"`
	VehicleID      int32     `json:"vehicle_id"`
	RenterID       int32     `json:"renter_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalCents     int64     `json:"total_cents"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (p *Publisher) PublishReservationCreated(ctx context.Context, r *domain.Reservation) error {
	return p.publish(ctx, routingKeyCreated, eventFromReservation(routingKeyCreated, r, ""))
}

func (p *Publisher) PublishReservationStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.ReservationStatus) error {
	return p.publish(ctx, routingKeyStatusChanged, eventFromReservation(routingKeyStatusChanged, r, string(previous)))
}

func eventFromReservation(eventType string, r *domain.Reservation, previous string) ReservationEvent {
	return ReservationEvent{
		Type:           eventType,
		ReservationID:  r.ID,
		Reference:      r.Reference,
		VehicleID:      r.VehicleID,
		RenterID:       r.RenterID,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		TotalCents:     r.TotalCents,
		Status:         string(r.Status),
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event ReservationEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return ch.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

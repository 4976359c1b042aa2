// Package events publishes storefront activity (logins, cart changes,
// checkouts, admin order decisions) to Kafka for downstream analytics.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	deliveryTimeout = 5 * time.Second
	batchTimeout    = 50 * time.Millisecond
	maxAttempts     = 3
)

const (
	TypeLogin         = "login"
	TypeLogout        = "logout"
	TypeRegister      = "register"
	TypeCartAdd       = "cart_add"
	TypeCartUpdate    = "cart_update"
	TypeCartRemove    = "cart_remove"
	TypeCartClear     = "cart_clear"
	TypeCheckout      = "checkout"
	TypeOrderApproved = "order_approved"
	TypeOrderCanceled = "order_cancelled"
)

type Event struct {
	Type      string         `json:"type"`
	VisitorID string         `json:"visitorId"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	At        time.Time      `json:"at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, ev Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer writes asynchronously: requests never wait on the broker, and
// failed deliveries are logged when the batch completes.
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           deliveryTimeout,
		MaxAttempts:            maxAttempts,
		BatchTimeout:           batchTimeout,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("event_delivery_failed", "topic", topic, "count", len(messages), "error", err)
			}
		},
	}}
}

// PublishEvent queues ev for delivery. Events are keyed by visitor so one
// visitor's activity stays ordered within a partition.
func (p *Producer) PublishEvent(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.VisitorID), Value: data}); err != nil {
		return fmt.Errorf("kafka: enqueue failed: %w", err)
	}
	return nil
}

// Close flushes queued events.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop drops events; used when no brokers are configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }

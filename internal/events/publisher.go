// Package events publishes storefront domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeOrderCreated    = "order.created"
	TypePaymentVerified = "payment.verified"
	TypePaymentFailed   = "payment.failed"
	TypeSellSubmitted   = "sell.submitted"
)

// Event is the envelope written to the topic.
type Event struct {
	ID         uuid.UUID   `json:"eventId"`
	Type       string      `json:"eventType"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps an event of the given type.
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// batchTimeout bounds how long a publish waits for a batch to fill. Events are
// written one at a time on the request path.
const batchTimeout = 5 * time.Millisecond

// NewKafkaPublisher writes to topic on brokers. With no brokers it returns a
// publisher that only logs.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) Publisher {
	if len(brokers) == 0 {
		return NewLogPublisher(logger)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: batchTimeout,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return &kafkaPublisher{writer: writer, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.logger.Debug("Published event",
		zap.String("event_type", event.Type),
		zap.String("key", event.Key),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type logPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) Publisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Debug("Event not published, no brokers configured",
		zap.String("event_type", event.Type),
		zap.String("key", event.Key),
	)
	return nil
}

func (p *logPublisher) Close() error { return nil }

package rabbitmq

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	EventQuizFinished     = "adaptive_quiz.finished"
	EventQuizMaterialized = "adaptive_quiz.materialized"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
	Close()
}

type envelope struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type eventPublisher struct {
	log      *logger.Logger
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewEventPublisher dials the broker and declares a durable topic exchange.
func NewEventPublisher(log *logger.Logger, amqpURL, exchange string) (Publisher, error) {
	if strings.TrimSpace(amqpURL) == "" {
		return nil, fmt.Errorf("missing RABBITMQ_URI")
	}
	if strings.TrimSpace(exchange) == "" {
		exchange = "adaptive_quiz.events"
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}
	return &eventPublisher{
		log:      log.With("service", "RabbitEventPublisher"),
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

func (p *eventPublisher) Publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(envelope{Type: eventType, Payload: payload, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// event type doubles as the routing key
	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}
	p.log.Debug("event published", "type", eventType)
	return nil
}

func (p *eventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) error { return nil }
func (NopPublisher) Close()                            {}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const sourceName = "learning-service"

// Event types published by the services.
const (
	TypeUserRegistered  = "user.registered"
	TypeBranchCompleted = "progress.branch_completed"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NewEvent builds an event envelope with a fresh id.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     sourceName,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// UserRegisteredEvent is emitted after a user record is persisted.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
}

// BranchCompletedEvent is emitted the first time a user completes a branch.
type BranchCompletedEvent struct {
	UserID      string    `json:"user_id"`
	BranchID    string    `json:"branch_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// EventPublisher publishes domain events. Publishing is best-effort from the
// services' perspective; failures are logged, never surfaced to callers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ===== KAFKA PUBLISHER =====

type kafkaEventPublisher struct {
	publisher *kafka.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaEventPublisher creates a watermill Kafka-backed publisher.
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &kafkaEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *kafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// ===== NO-OP PUBLISHER =====

type nopEventPublisher struct{}

// NewNopEventPublisher returns a publisher that drops all events; used when
// no broker is configured.
func NewNopEventPublisher() EventPublisher {
	return nopEventPublisher{}
}

func (nopEventPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (nopEventPublisher) Close() error                                   { return nil }

// ===== MOCK PUBLISHER (tests) =====

// MockEventPublisher records published events for assertions in tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

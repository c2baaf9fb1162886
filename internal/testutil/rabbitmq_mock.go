package testutil

import (
	"context"
	"sync"

	"github.com/CareConnect-Health/care-service/internal/messaging"
)

// PublishedEvent is one event captured by the mock publisher
type PublishedEvent struct {
	RoutingKey string
	Event      interface{}
}

// MockPublisher captures published events in memory
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	closed bool
}

var _ messaging.EventPublisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Event: event})
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Events returns a copy of everything published so far
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsWithKey returns the published events carrying the given routing key
func (m *MockPublisher) EventsWithKey(routingKey string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PublishedEvent
	for _, e := range m.events {
		if e.RoutingKey == routingKey {
			out = append(out, e)
		}
	}
	return out
}

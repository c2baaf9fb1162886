package messaging

import "context"

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	// Publish publishes an event with the given routing key
	Publish(ctx context.Context, routingKey string, event interface{}) error

	// Close closes the publisher connection
	Close() error
}

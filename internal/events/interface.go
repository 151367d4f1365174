// Package events publishes column order changes to other processes
package events

import "context"

// EventPublisher sends ordering events after their transaction commits.
// A nil EventPublisher is valid everywhere and sends nothing.
type EventPublisher interface {
	// SendEvent publishes a single event
	SendEvent(ctx context.Context, event Event) error

	// Close releases the publisher's connection
	Close() error
}

// Compile-time verification that *RedisPublisher implements EventPublisher
var _ EventPublisher = (*RedisPublisher)(nil)

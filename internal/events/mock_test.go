package events

import (
	"context"
	"errors"
	"sync"
)

// MockEventPublisher records sent events and fails the first failures calls
type MockEventPublisher struct {
	mu         sync.Mutex
	SentEvents []Event
	Calls      int
	failures   int
}

func (m *MockEventPublisher) SendEvent(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Calls <= m.failures {
		return errors.New("connection refused")
	}
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

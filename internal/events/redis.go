package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thenoetrevino/kanrank/internal/types"
)

// DefaultChannelPrefix namespaces the per-column channels
const DefaultChannelPrefix = "kanrank"

// RedisPublisher publishes events on Redis pub/sub, one channel per column
type RedisPublisher struct {
	client   *redis.Client
	prefix   string
	sequence atomic.Int64
}

// NewRedisPublisher connects to redisURL and verifies the connection
func NewRedisPublisher(ctx context.Context, redisURL, prefix string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisPublisherWithClient(client, prefix), nil
}

// NewRedisPublisherWithClient creates a publisher from an existing Redis client
func NewRedisPublisherWithClient(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{
		client: client,
		prefix: prefix,
	}
}

// Channel returns the channel events for columnID are published on
func (p *RedisPublisher) Channel(columnID types.ColumnID) string {
	return fmt.Sprintf("%s:column:%d", p.prefix, columnID)
}

// SendEvent stamps the event with a sequence number and time and publishes it
func (p *RedisPublisher) SendEvent(ctx context.Context, event Event) error {
	event.SequenceID = p.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.Channel(event.ColumnID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Listen subscribes to every column channel and decodes events until ctx is
// cancelled. The returned channel is closed when listening stops.
func (p *RedisPublisher) Listen(ctx context.Context) (<-chan Event, error) {
	sub := p.client.PSubscribe(ctx, p.prefix+":column:*")

	// Wait for the subscription to be confirmed so no event is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

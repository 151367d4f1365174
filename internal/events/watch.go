package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/thenoetrevino/kanrank/internal/types"
)

// Listener streams events until its context is cancelled
type Listener interface {
	Listen(ctx context.Context) (<-chan Event, error)
}

var _ Listener = (*RedisPublisher)(nil)

// Watch writes every event from l to w as one JSON object per line.
// A non-zero columnID restricts output to that column. Watch returns nil
// once ctx is cancelled.
func Watch(ctx context.Context, l Listener, w io.Writer, columnID types.ColumnID) error {
	received, err := l.Listen(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for event := range received {
		if columnID != 0 && event.ColumnID != columnID {
			continue
		}
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	return nil
}

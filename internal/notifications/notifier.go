// Package notifications publishes board events to Redis for downstream consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"noticeboard/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel carries every board event.
const BroadcastChannel = "notifications:broadcast"

// Event type constants prevent typos in event names.
const (
	EventEntryCreated   = "entry_created"
	EventEntryDeleted   = "entry_deleted"
	EventEntryUpvoted   = "entry_upvoted"
	EventCommentCreated = "comment_created"
)

// Event is the JSON envelope published on BroadcastChannel.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish sends an event to all subscribers. Without a Redis client it is a no-op.
func (n *Notifier) Publish(ctx context.Context, eventType string, payload map[string]interface{}) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return n.rdb.Publish(ctx, BroadcastChannel, body).Err()
}

// Subscribe listens on BroadcastChannel and calls onEvent for each decoded event
// until ctx is cancelled. Undecodable messages are logged and skipped.
func (n *Notifier) Subscribe(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BroadcastChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", BroadcastChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					middleware.Logger.Warn("dropping malformed event", slog.String("error", err.Error()))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in event subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onEvent(event)
				}()
			}
		}
	}()

	return nil
}

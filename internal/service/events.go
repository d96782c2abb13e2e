// Package service holds the board's business rules between the HTTP layer and the store.
package service

import (
	"context"
	"log/slog"

	"noticeboard/internal/middleware"
)

// EventPublisher delivers board events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{}) error
}

// publishEvent is best effort: failures are logged and never fail the operation.
func publishEvent(ctx context.Context, pub EventPublisher, eventType string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", eventType),
			slog.String("error", err.Error()),
		)
	}
}

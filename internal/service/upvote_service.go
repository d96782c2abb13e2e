package service

import (
	"context"

	"noticeboard/internal/models"
	"noticeboard/internal/notifications"
	"noticeboard/internal/observability"
	"noticeboard/internal/repository"
	"noticeboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type UpvoteService struct {
	upvotes   repository.UpvoteRepository
	directory *ProfileDirectory
	events    EventPublisher
}

type ToggleInput struct {
	UserID      string
	DisplayName string
	EntryID     string
}

type ToggleResult struct {
	Action string
	Count  int64
}

func NewUpvoteService(upvotes repository.UpvoteRepository, directory *ProfileDirectory, events EventPublisher) *UpvoteService {
	return &UpvoteService{upvotes: upvotes, directory: directory, events: events}
}

// Toggle adds the caller's upvote when absent and removes it when present.
func (s *UpvoteService) Toggle(ctx context.Context, in ToggleInput) (_ *ToggleResult, err error) {
	span, ctx := observability.NewSpan(ctx, "UpvoteService.Toggle",
		attribute.String("user.id", in.UserID),
		attribute.String("entry.id", in.EntryID),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if !validation.ValidID(in.EntryID) {
		return nil, models.NewValidationError("Invalid entry ID")
	}

	action, count, err := s.upvotes.Toggle(ctx, in.UserID, in.DisplayName, in.EntryID)
	if err != nil {
		return nil, err
	}

	s.directory.Invalidate(ctx, in.UserID)
	observability.UpvoteToggles.WithLabelValues(action).Inc()
	span.AddAttributes(attribute.String("upvote.action", action), attribute.Int64("upvote.count", count))
	publishEvent(ctx, s.events, notifications.EventEntryUpvoted, map[string]interface{}{
		"entry_id":     in.EntryID,
		"user_id":      in.UserID,
		"action":       action,
		"upvote_count": count,
	})

	return &ToggleResult{Action: action, Count: count}, nil
}

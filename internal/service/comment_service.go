package service

import (
	"context"
	"fmt"
	"strings"

	"noticeboard/internal/models"
	"noticeboard/internal/notifications"
	"noticeboard/internal/observability"
	"noticeboard/internal/repository"
	"noticeboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	comments  repository.CommentRepository
	directory *ProfileDirectory
	events    EventPublisher
}

type CreateCommentInput struct {
	UserID      string
	DisplayName string
	EntryID     string
	Content     string
}

func NewCommentService(comments repository.CommentRepository, directory *ProfileDirectory, events EventPublisher) *CommentService {
	return &CommentService{comments: comments, directory: directory, events: events}
}

// ListComments returns the entry's comments newest first. An unknown entry has none.
func (s *CommentService) ListComments(ctx context.Context, entryID string) (_ []*models.Comment, err error) {
	span, ctx := observability.NewSpan(ctx, "CommentService.ListComments", attribute.String("entry.id", entryID))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return nil, models.NewValidationError("Entry ID is required")
	}

	comments, err := s.comments.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	labels := s.directory.resolveAuthors(ctx, ids)
	for _, c := range comments {
		c.Author = &models.Author{ID: c.AuthorID, Username: labels[c.AuthorID]}
	}
	return comments, nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (_ *models.Comment, err error) {
	span, ctx := observability.NewSpan(ctx, "CommentService.CreateComment",
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
	entryID := strings.TrimSpace(in.EntryID)
	if entryID == "" || validation.IsBlank(in.Content) {
		return nil, models.NewValidationError("Entry ID and content are required")
	}
	if !validation.WithinLength(in.Content, models.MaxCommentLength) {
		return nil, models.NewValidationError(fmt.Sprintf("Comment exceeds the %d character limit", models.MaxCommentLength))
	}

	content := validation.PlainText(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Entry ID and content are required")
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: in.UserID,
		EntryID:  entryID,
	}
	if err := s.comments.Create(ctx, comment, in.DisplayName); err != nil {
		return nil, err
	}
	s.directory.Invalidate(ctx, in.UserID)

	labels := s.directory.resolveAuthors(ctx, []string{in.UserID})
	comment.Author = &models.Author{ID: in.UserID, Username: labels[in.UserID]}

	observability.CommentsCreated.Inc()
	publishEvent(ctx, s.events, notifications.EventCommentCreated, map[string]interface{}{
		"id":        comment.ID,
		"entry_id":  comment.EntryID,
		"author_id": comment.AuthorID,
	})
	return comment, nil
}

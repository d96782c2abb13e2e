package service

import (
	"context"
	"log/slog"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/notifications"
	"noticeboard/internal/observability"
	"noticeboard/internal/repository"
	"noticeboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type EntryService struct {
	entries   repository.EntryRepository
	users     repository.UserRepository
	directory *ProfileDirectory
	events    EventPublisher
}

type CreateEntryInput struct {
	UserID      string
	DisplayName string
	Title       string
	Description string
	Tag         string
}

type DeleteEntryInput struct {
	UserID  string
	EntryID string
}

func NewEntryService(
	entries repository.EntryRepository,
	users repository.UserRepository,
	directory *ProfileDirectory,
	events EventPublisher,
) *EntryService {
	return &EntryService{
		entries:   entries,
		users:     users,
		directory: directory,
		events:    events,
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, in CreateEntryInput) (_ *models.Entry, err error) {
	span, ctx := observability.NewSpan(ctx, "EntryService.CreateEntry", attribute.String("user.id", in.UserID))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	title := validation.PlainText(in.Title)
	description := validation.PlainText(in.Description)
	tag := models.Tag(in.Tag)
	if title == "" || description == "" || !tag.Valid() {
		return nil, models.NewValidationError("Missing required fields or invalid tag")
	}

	entry := &models.Entry{
		Title:       title,
		Description: description,
		Tag:         tag,
		AuthorID:    in.UserID,
	}
	if err := s.entries.Create(ctx, entry, in.DisplayName); err != nil {
		return nil, err
	}
	s.directory.Invalidate(ctx, in.UserID)

	labels := s.directory.resolveAuthors(ctx, []string{in.UserID})
	entry.UpvoteCount = 0
	entry.Author = &models.Author{ID: in.UserID, Username: labels[in.UserID]}

	observability.EntriesCreated.WithLabelValues(string(tag)).Inc()
	span.AddAttributes(attribute.String("entry.id", entry.ID))
	publishEvent(ctx, s.events, notifications.EventEntryCreated, map[string]interface{}{
		"id":        entry.ID,
		"title":     entry.Title,
		"tag":       string(entry.Tag),
		"author_id": entry.AuthorID,
	})

	return entry, nil
}

// DeleteEntry removes an entry on behalf of an admin. The caller's role is read
// from the store on every call; cached profiles are never trusted here.
func (s *EntryService) DeleteEntry(ctx context.Context, in DeleteEntryInput) (err error) {
	span, ctx := observability.NewSpan(ctx, "EntryService.DeleteEntry",
		attribute.String("user.id", in.UserID),
		attribute.String("entry.id", in.EntryID),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if in.UserID == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	if !validation.ValidID(in.EntryID) {
		return models.NewValidationError("Invalid entry ID")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil && !models.IsCode(err, models.CodeNotFound) {
		return err
	}
	if !user.IsAdmin() {
		observability.ForbiddenDeletes.Inc()
		middleware.Logger.WarnContext(ctx, "non-admin attempted entry delete",
			slog.String("actor", in.UserID),
			slog.String("entry_id", in.EntryID),
		)
		return models.NewForbiddenError("Forbidden")
	}

	if err := s.entries.Delete(ctx, in.EntryID); err != nil {
		return err
	}

	observability.EntriesDeleted.Inc()
	publishEvent(ctx, s.events, notifications.EventEntryDeleted, map[string]interface{}{
		"id":         in.EntryID,
		"deleted_by": in.UserID,
	})
	return nil
}

// SetRole changes a user's stored role and drops their cached profile.
func (s *EntryService) SetRole(ctx context.Context, userID string, role models.Role) error {
	if role != models.RoleAdmin && role != models.RoleUser {
		return models.NewValidationError("Invalid role")
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.directory.Invalidate(ctx, userID)
	return nil
}

// ListAdmins returns every user holding the admin role.
func (s *EntryService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleAdmin)
}

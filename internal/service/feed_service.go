package service

import (
	"context"

	"noticeboard/internal/models"
	"noticeboard/internal/observability"
	"noticeboard/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Feed paging limits.
const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 100
)

type FeedService struct {
	entries   repository.EntryRepository
	directory *ProfileDirectory
}

type ListEntriesInput struct {
	Sort   string
	Limit  int
	Offset int
}

func NewFeedService(entries repository.EntryRepository, directory *ProfileDirectory) *FeedService {
	return &FeedService{entries: entries, directory: directory}
}

// ListEntries returns one feed page with live upvote counts and author labels.
func (s *FeedService) ListEntries(ctx context.Context, in ListEntriesInput) (_ []*models.Entry, err error) {
	sort := models.NormalizeSort(in.Sort)
	span, ctx := observability.NewSpan(ctx, "FeedService.ListEntries", attribute.String("feed.sort", sort))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.entries.List(ctx, sort, limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Entry{}
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AuthorID)
	}
	labels := s.directory.resolveAuthors(ctx, ids)
	for _, e := range entries {
		e.Author = &models.Author{ID: e.AuthorID, Username: labels[e.AuthorID]}
	}

	span.AddAttributes(attribute.Int("feed.size", len(entries)))
	return entries, nil
}

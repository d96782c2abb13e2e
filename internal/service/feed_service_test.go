package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"noticeboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_ListEntries_Paging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         ListEntriesInput
		wantSort   string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", ListEntriesInput{}, models.SortNew, DefaultFeedLimit, 0},
		{"top", ListEntriesInput{Sort: "top", Limit: 10, Offset: 20}, models.SortTop, 10, 20},
		{"unknown sort", ListEntriesInput{Sort: "hot"}, models.SortNew, DefaultFeedLimit, 0},
		{"limit clamped", ListEntriesInput{Limit: 1000}, models.SortNew, MaxFeedLimit, 0},
		{"negative offset", ListEntriesInput{Offset: -5}, models.SortNew, DefaultFeedLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := noopEntryRepo()
			repo.listFn = func(_ context.Context, sort string, limit, offset int) ([]*models.Entry, error) {
				assert.Equal(t, tt.wantSort, sort)
				assert.Equal(t, tt.wantLimit, limit)
				assert.Equal(t, tt.wantOffset, offset)
				return nil, nil
			}
			svc := NewFeedService(repo, nil)

			entries, err := svc.ListEntries(context.Background(), tt.in)
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Empty(t, entries)
		})
	}
}

func TestFeedService_ListEntries_AuthorLabels(t *testing.T) {
	t.Parallel()

	entries := func() []*models.Entry {
		return []*models.Entry{
			{ID: "e1", AuthorID: "user_named"},
			{ID: "e2", AuthorID: "user_2anon"},
			{ID: "e3", AuthorID: "user_named"},
			{ID: "e4", AuthorID: "user_gone"},
		}
	}

	t.Run("resolved in one batch", func(t *testing.T) {
		t.Parallel()
		repo := noopEntryRepo()
		repo.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Entry, error) { return entries(), nil }

		var batches [][]string
		users := noopUserRepo()
		users.listByIDsFn = func(_ context.Context, ids []string) ([]models.User, error) {
			batches = append(batches, ids)
			return []models.User{
				{ID: "user_named", DisplayName: strPtr("Named")},
				{ID: "user_2anon"},
			}, nil
		}
		svc := NewFeedService(repo, NewProfileDirectory(users, nil, nil, time.Minute))

		got, err := svc.ListEntries(context.Background(), ListEntriesInput{})
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.ElementsMatch(t, []string{"user_named", "user_2anon", "user_gone"}, batches[0])

		labels := make([]string, len(got))
		for i, e := range got {
			labels[i] = e.Author.Username
			assert.Equal(t, e.AuthorID, e.Author.ID)
		}
		assert.Equal(t, []string{"Named", "User 2ano", "Named", UnknownAuthor}, labels)
	})

	t.Run("directory failure keeps the feed", func(t *testing.T) {
		t.Parallel()
		repo := noopEntryRepo()
		repo.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Entry, error) { return entries(), nil }
		users := noopUserRepo()
		users.listByIDsFn = func(_ context.Context, _ []string) ([]models.User, error) {
			return nil, errors.New("timeout")
		}
		svc := NewFeedService(repo, NewProfileDirectory(users, nil, nil, time.Minute))

		got, err := svc.ListEntries(context.Background(), ListEntriesInput{})
		require.NoError(t, err)
		require.Len(t, got, 4)
		for _, e := range got {
			assert.Equal(t, UnknownAuthor, e.Author.Username)
		}
	})

	t.Run("store failure fails the feed", func(t *testing.T) {
		t.Parallel()
		repo := noopEntryRepo()
		repo.listFn = func(_ context.Context, _ string, _, _ int) ([]*models.Entry, error) {
			return nil, models.NewInternalError(errors.New("db down"))
		}
		svc := NewFeedService(repo, nil)

		_, err := svc.ListEntries(context.Background(), ListEntriesInput{})
		assertAppError(t, err, models.CodeInternal)
	})
}

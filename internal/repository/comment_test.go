package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"noticeboard/internal/models"
	"noticeboard/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)
	testutil.SeedUser(t, db, "author", models.RoleUser, "")
	entry := testutil.SeedEntry(t, db, "author", "Trivia night")
	repo := NewCommentRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	first := &models.Comment{Content: "first", AuthorID: "c1", EntryID: entry.ID, CreatedAt: base}
	second := &models.Comment{Content: "second", AuthorID: "c2", EntryID: entry.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first, ""))
	require.NoError(t, repo.Create(ctx, second, "Commenter Two"))

	comments, err := repo.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "first", comments[1].Content)

	empty, err := repo.ListByEntry(ctx, "unknown-entry")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_CreateMissingEntry(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)

	err := repo.Create(context.Background(), &models.Comment{Content: "hello", AuthorID: "c1", EntryID: "missing"}, "")
	require.Error(t, err)
	assert.Equal(t, "Entry not found", err.Error())

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestCommentRepository_ListByEntrySQL(t *testing.T) {
	t.Parallel()
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE entry_id = $1 ORDER BY created_at DESC,id DESC`)).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "author_id", "entry_id"}).
			AddRow("c2", "Comment 2", "u2", "e1").
			AddRow("c1", "Comment 1", "u1", "e1"))

	comments, err := repo.ListByEntry(context.Background(), "e1")
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "Comment 2", comments[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

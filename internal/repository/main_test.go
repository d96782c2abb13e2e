package repository

import (
	"testing"

	"noticeboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a Postgres-dialect gorm handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

// upvoteCount reads the stored number of upvotes for an entry.
func upvoteCount(t *testing.T, db *gorm.DB, entryID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Upvote{}).Where("entry_id = ?", entryID).Count(&n).Error)
	return n
}

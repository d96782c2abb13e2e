// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"noticeboard/internal/database"
	"noticeboard/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory SQLite database with foreign keys
// enforced and the full schema migrated. The pool is pinned to one connection
// so the in-memory database lives as long as the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// SeedUser inserts a user row with an optional display name.
func SeedUser(t testing.TB, db *gorm.DB, id string, role models.Role, displayName string) *models.User {
	t.Helper()

	u := &models.User{ID: id, Role: role}
	if displayName != "" {
		u.DisplayName = &displayName
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}

// SeedEntry inserts an entry authored by authorID.
func SeedEntry(t testing.TB, db *gorm.DB, authorID, title string) *models.Entry {
	t.Helper()

	e := &models.Entry{
		Title:       title,
		Description: title + " description",
		Tag:         models.TagEvent,
		AuthorID:    authorID,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed entry %q: %v", title, err)
	}
	return e
}

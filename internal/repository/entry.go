package repository

import (
	"context"

	"noticeboard/internal/models"

	"gorm.io/gorm"
)

// entryWithCount selects every entry column plus the live upvote count.
const entryWithCount = "entries.*, (SELECT COUNT(*) FROM upvotes WHERE upvotes.entry_id = entries.id) AS upvote_count"

// EntryRepository defines the interface for entry data operations.
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry, displayName string) error
	List(ctx context.Context, sort string, limit, offset int) ([]*models.Entry, error)
	Delete(ctx context.Context, id string) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create upserts the author and inserts the entry in one transaction.
func (r *entryRepository) Create(ctx context.Context, entry *models.Entry, displayName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, entry.AuthorID, displayName); err != nil {
			return err
		}
		return tx.Omit("AuthorUser", "Upvotes", "Comments").Create(entry).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Entry already exists", err)
		}
		return models.NewInternalError(storeError("entry_create", err))
	}
	return nil
}

// List returns one page of entries in feed order. Unknown sort values fall back to newest first.
func (r *entryRepository) List(ctx context.Context, sort string, limit, offset int) ([]*models.Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.Entry{}).Select(entryWithCount)

	if models.NormalizeSort(sort) == models.SortTop {
		query = query.Order("upvote_count DESC")
	}
	query = query.Order("entries.created_at DESC").Order("entries.id DESC")

	var entries []*models.Entry
	if err := query.Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(storeError("entry_list", err))
	}
	return entries, nil
}

// Delete removes the entry. Upvotes and comments go with it through ON DELETE CASCADE.
func (r *entryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Entry{})
	if result.Error != nil {
		return models.NewInternalError(storeError("entry_delete", result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Entry")
	}
	return nil
}

package repository

import (
	"context"

	"noticeboard/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment, displayName string) error
	ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create upserts the author and inserts the comment in one transaction.
// A comment on a missing entry fails the foreign key and maps to NotFound.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment, displayName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, comment.AuthorID, displayName); err != nil {
			return err
		}
		return tx.Omit("AuthorUser").Create(comment).Error
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("Entry")
		}
		return models.NewInternalError(storeError("comment_create", err))
	}
	return nil
}

// ListByEntry returns the entry's comments newest first; an unknown entry yields none.
func (r *commentRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(storeError("comment_list", err))
	}
	return comments, nil
}

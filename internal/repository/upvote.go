package repository

import (
	"context"

	"noticeboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpvoteRepository defines the interface for upvote data operations.
type UpvoteRepository interface {
	Toggle(ctx context.Context, userID, displayName, entryID string) (action string, count int64, err error)
}

type upvoteRepository struct {
	db *gorm.DB
}

// NewUpvoteRepository creates a new upvote repository
func NewUpvoteRepository(db *gorm.DB) UpvoteRepository {
	return &upvoteRepository{db: db}
}

// Toggle flips the user's upvote on the entry and returns the resulting count.
// The (user_id, entry_id) primary key keeps at most one row per pair, and the
// delete-then-insert runs in one transaction so the count read matches the write.
func (r *upvoteRepository) Toggle(ctx context.Context, userID, displayName, entryID string) (string, int64, error) {
	var (
		action string
		count  int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, userID, displayName); err != nil {
			return err
		}

		// Hard delete the upvote record if present
		removed := tx.Where("user_id = ? AND entry_id = ?", userID, entryID).Delete(&models.Upvote{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			action = models.UpvoteRemoved
		} else {
			// A concurrent toggle may insert first; DO NOTHING keeps the single row.
			added := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Upvote{UserID: userID, EntryID: entryID})
			if added.Error != nil {
				return added.Error
			}
			action = models.UpvoteAdded
		}

		return tx.Model(&models.Upvote{}).Where("entry_id = ?", entryID).Count(&count).Error
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", 0, models.NewNotFoundError("Entry")
		}
		return "", 0, models.NewInternalError(storeError("upvote_toggle", err))
	}

	return action, count, nil
}

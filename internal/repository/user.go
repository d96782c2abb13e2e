package repository

import (
	"context"
	"errors"

	"noticeboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	EnsureExists(ctx context.Context, id, displayName string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// upsertUser creates the user row on first sight. A non-empty displayName
// refreshes the stored name; the role is never written here.
func upsertUser(tx *gorm.DB, id, displayName string) error {
	user := models.User{ID: id, Role: models.RoleUser}
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}
	if displayName != "" {
		user.DisplayName = &displayName
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
		}
	}
	return tx.Clauses(onConflict).Create(&user).Error
}

func (r *userRepository) EnsureExists(ctx context.Context, id, displayName string) error {
	if err := upsertUser(r.db.WithContext(ctx), id, displayName); err != nil {
		return models.NewInternalError(storeError("user_upsert", err))
	}
	return nil
}

// GetByID always reads the store; callers making authorization decisions rely on that.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewInternalError(storeError("user_get", err))
	}
	return &user, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(storeError("user_list_by_ids", err))
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(storeError("user_list_by_role", err))
	}
	return users, nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return models.NewInternalError(storeError("user_set_role", result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

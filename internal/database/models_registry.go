package database

import "noticeboard/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Entry{},
		&models.Upvote{},
		&models.Comment{},
	}
}

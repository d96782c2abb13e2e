package models

import (
	"time"
)

// Role is the authorization level stored for a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the local record of an identity issued by the external provider.
// Rows are created lazily on a user's first write action.
type User struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Role        Role      `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	DisplayName *string   `gorm:"type:varchar(255)" json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the stored role grants admin privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Profile is the public view of a user used to label authors.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// Author is the author summary attached to entries and comments.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

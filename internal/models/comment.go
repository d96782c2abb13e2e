package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength is the longest comment accepted, in characters.
const MaxCommentLength = 1200

// Comment is a reply attached to an entry. Comments are immutable once written.
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"type:varchar(64);not null;index" json:"authorId"`
	EntryID   string    `gorm:"type:varchar(64);not null;index" json:"entryId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	AuthorUser *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Author *Author `gorm:"-" json:"author,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not supply an id.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

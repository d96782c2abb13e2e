package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag classifies an entry.
type Tag string

const (
	TagProgram       Tag = "PROGRAM"
	TagEvent         Tag = "EVENT"
	TagTipsAndTricks Tag = "TIPS_AND_TRICKS"
)

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	switch t {
	case TagProgram, TagEvent, TagTipsAndTricks:
		return true
	}
	return false
}

// Feed sort orders.
const (
	SortNew = "new"
	SortTop = "top"
)

// NormalizeSort maps unknown sort values to SortNew.
func NormalizeSort(sort string) string {
	if sort == SortTop {
		return SortTop
	}
	return SortNew
}

// Entry is a post on the board.
type Entry struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Tag         Tag       `gorm:"type:varchar(32);not null;index" json:"tag"`
	AuthorID    string    `gorm:"type:varchar(64);not null;index" json:"authorId"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`

	// UpvoteCount is not persisted; computed at query time
	UpvoteCount int64 `gorm:"->;-:migration" json:"upvoteCount"`

	AuthorUser *User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Upvotes    []Upvote  `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
	Comments   []Comment `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`

	Author *Author `gorm:"-" json:"author,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not supply an id.
func (e *Entry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

package models

import "time"

// Upvote is one user's endorsement of one entry. The composite primary key
// allows at most one row per (user, entry) pair.
type Upvote struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"userId"`
	EntryID   string    `gorm:"primaryKey;type:varchar(64);index" json:"entryId"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// Toggle outcomes.
const (
	UpvoteAdded   = "added"
	UpvoteRemoved = "removed"
)

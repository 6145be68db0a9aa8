package db

import (
	"time"
)

// Node is one top-level key of the denormalized JSON tree: a user's whole
// subtree (profile fields, Posts, followers, Notifications, conversations),
// a conversation's message list, or the global "users" directory.
//
// Doc holds the raw JSON document. Writes below the top-level key re-read,
// splice and overwrite the whole document — last write wins, no field-level
// merge. That is the store's contract, not an accident of this schema.
type Node struct {
	Key       string    `gorm:"primaryKey;column:node_key;size:191;not null"`
	Doc       []byte    `gorm:"type:json"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Credential keeps login secrets out of the public tree. One row per
// registered user, keyed the same way as the user's tree node.
type Credential struct {
	SafeEmail    string `gorm:"primaryKey;size:191;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

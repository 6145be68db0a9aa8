package notification

import "github.com/recruiterhub/backend/internal/profile"

const (
	TypeFollow = "follow"
	TypeLike   = "like"
)

// Record is a stored notification row under the recipient's subtree.
// PostID is the liked post's URL and is only set for like notifications.
type Record struct {
	Email  string `json:"email"`
	Type   string `json:"type"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	PostID string `json:"postID,omitempty"`
}

// FollowState is derived at read time from the recipient's live following
// list, so a stored follow notification can render "following" one day and
// "not following" the next without the record changing.
type FollowState string

const (
	StateFollowing    FollowState = "following"
	StateNotFollowing FollowState = "not_following"
)

// Notification is the read-side shape: the stored record joined with the
// source user's profile and, for follows, the live state.
type Notification struct {
	Record
	User        *profile.User `json:"user,omitempty"`
	FollowState FollowState   `json:"follow_state,omitempty"`
}

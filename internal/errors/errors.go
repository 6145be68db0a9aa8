package errors

import "errors"

// Store error taxonomy. Reads that find a missing subtree are not errors;
// these cover malformed data and the one "valid empty" state callers must
// tell apart from a transport failure.
var (
	// ErrFetchFailed means a subtree was present but could not be decoded,
	// or the backing store failed outright.
	ErrFetchFailed = errors.New("failed to fetch")

	// ErrConversationsEmpty means the user has no conversations node at all.
	// Callers render an empty inbox rather than an error state.
	ErrConversationsEmpty = errors.New("conversations empty")
)

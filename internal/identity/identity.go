package identity

import "strings"

// SafeKey converts an email address into a storage-safe path segment.
// The tree store disallows '.' and '@' in keys; both map to '-'.
// Applying it to an already-safe key is a no-op, so paths can be built
// from either form.
func SafeKey(email string) string {
	s := strings.ReplaceAll(email, ".", "-")
	return strings.ReplaceAll(s, "@", "-")
}

// Session identifies the acting user for a store call. It is threaded
// explicitly through every mutation instead of being read from process-wide
// state, so tests and fan-out paths can act as arbitrary users.
type Session struct {
	Email    string
	Username string
	Name     string
}

// SafeEmail returns the session's storage key.
func (s Session) SafeEmail() string {
	return SafeKey(s.Email)
}

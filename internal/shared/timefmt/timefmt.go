// Package timefmt holds the single date layout used for every date string
// persisted in the tree. Stored dates are strings, not timestamps, so every
// writer and reader must agree on this layout or sorting breaks.
package timefmt

import "time"

const Layout = "Jan 2, 2006 at 3:04:05 PM MST"

// Format renders t in the persisted layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse decodes a persisted date string. Zero time on failure; callers
// treat unparseable dates as oldest.
func Parse(s string) time.Time {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

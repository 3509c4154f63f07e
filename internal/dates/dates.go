// Package dates parses the publication date formats found in news data.
package dates

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2-Jan-06",
	"2006-01-02",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
}

// Parse accepts the date styles found in news datasets; anything it
// cannot parse yields the zero time.
func Parse(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

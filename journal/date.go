package journal

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the free-form date field accepts
// whatever a form, a spreadsheet or a hand edit produced.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-06",
	"01-02-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	"Mon Jan 02 2006",
}

// ParseDate reads a trade date in loc. ok is false when nothing matches;
// callers treat such trades as undated rather than failing.
func ParseDate(s string, loc *time.Location) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// SameDay reports whether the trade date falls on day's calendar date.
func SameDay(date string, day time.Time) bool {
	t, ok := ParseDate(date, day.Location())
	if !ok {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether the trade date falls in day's calendar month.
func SameMonth(date string, day time.Time) bool {
	t, ok := ParseDate(date, day.Location())
	if !ok {
		return false
	}
	return t.Year() == day.Year() && t.Month() == day.Month()
}

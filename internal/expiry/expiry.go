// Package expiry implements date parsing and freshness classification for
// pantry items.
package expiry

import (
	"fmt"
	"time"

	"github.com/mkraev/pantry/internal/apperr"
)

// DateLayout is the only accepted input format: zero-padded dd/mm/yyyy.
const DateLayout = "02/01/2006"

// Freshness tags, in order of urgency. TagMonthsFormat covers deltas
// beyond two months.
const (
	TagExpired      = "Expired"
	TagWeek         = "Expiry in a week"
	TagMonth        = "Expiry in 1 month"
	TagTwoMonths    = "Expiry in 2 months"
	TagMonthsFormat = "Expiry in %d months"
)

// ParseDate parses a zero-padded dd/mm/yyyy date. Anything else, including
// impossible calendar dates, fails with apperr.ErrInvalidDate.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDate, s)
	}
	return t, nil
}

// DaysBetween returns the whole-day difference expiry - today. Both inputs
// are truncated to midnight UTC first, so the result is exact.
func DaysBetween(expiry, today time.Time) int {
	e := midnight(expiry)
	n := midnight(today)
	return int(e.Sub(n).Hours() / 24)
}

// Classify maps an expiry date and a reference date to a freshness tag.
//
// Buckets: past dates are Expired; 0-7 days is "a week"; 8-30 is "1 month";
// 31-60 is "2 months"; beyond that the label is deltaDays/30 months. The
// last rule reuses the "2 months" label for deltas of 61-89 days; this
// overlap is long-standing observed behavior and is kept on purpose.
func Classify(expiry, today time.Time) string {
	delta := DaysBetween(expiry, today)
	switch {
	case delta < 0:
		return TagExpired
	case delta <= 7:
		return TagWeek
	case delta <= 30:
		return TagMonth
	case delta <= 60:
		return TagTwoMonths
	default:
		return fmt.Sprintf(TagMonthsFormat, delta/30)
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

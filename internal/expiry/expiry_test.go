package expiry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkraev/pantry/internal/apperr"
)

var today = time.Date(2025, time.March, 10, 15, 4, 5, 0, time.UTC)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		delta int
		want  string
	}{
		{-30, "Expired"},
		{-1, "Expired"},
		{0, "Expiry in a week"},
		{7, "Expiry in a week"},
		{8, "Expiry in 1 month"},
		{30, "Expiry in 1 month"},
		{31, "Expiry in 2 months"},
		{60, "Expiry in 2 months"},
		{61, "Expiry in 2 months"}, // 61/30 == 2: the labels overlap here
		{75, "Expiry in 2 months"},
		{90, "Expiry in 3 months"},
		{365, "Expiry in 12 months"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("delta_%d", tc.delta), func(t *testing.T) {
			exp := today.AddDate(0, 0, tc.delta)
			if got := Classify(exp, today); got != tc.want {
				t.Errorf("Classify(+%dd) = %q, want %q", tc.delta, got, tc.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	exp := today.AddDate(0, 0, 12)
	first := Classify(exp, today)
	for i := 0; i < 5; i++ {
		if got := Classify(exp, today); got != first {
			t.Fatalf("Classify not deterministic: %q vs %q", got, first)
		}
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	// Same calendar date, different wall-clock times must classify alike.
	exp := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	if got := Classify(exp, today); got != TagWeek {
		t.Errorf("same-day expiry = %q, want %q", got, TagWeek)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("05/04/2025")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Day() != 5 || d.Month() != time.April || d.Year() != 2025 {
		t.Errorf("parsed %v", d)
	}
}

func TestParseDateRejects(t *testing.T) {
	cases := []string{
		"31/02/2024", // impossible calendar date
		"2024-02-31", // wrong separator/order
		"04/05",      // truncated
		"",           // empty
		"5/4/2025",   // missing zero padding
		"05-04-2025", // wrong separator
	}
	for _, s := range cases {
		if _, err := ParseDate(s); !errors.Is(err, apperr.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", s, err)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	exp := time.Date(2025, time.March, 13, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(exp, today); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	past := time.Date(2025, time.March, 9, 23, 0, 0, 0, time.UTC)
	if got := DaysBetween(past, today); got != -1 {
		t.Errorf("DaysBetween past = %d, want -1", got)
	}
}

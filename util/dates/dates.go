// Package dates converts wire dates to calendar days. Every date the service
// stores or compares is a UTC midnight.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	Layout,
}

// Parse accepts an ISO-8601 date or timestamp and returns the calendar day it
// names. Timestamps with an offset keep their own calendar day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string { return t.Format(Layout) }

// FormatGB renders dd/mm/yyyy, the format used by the report screens.
func FormatGB(t time.Time) string { return t.Format("02/01/2006") }

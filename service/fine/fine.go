// Package fine computes overdue penalties.
package fine

import (
	"time"

	"github.com/Rahulstark2/librarymanagement/util/dates"
)

const (
	Base       = 50
	PerLateDay = 10
)

// DaysLate is the number of whole days actual falls after due, rounded up.
// Time of day is ignored.
func DaysLate(actual, due time.Time) int {
	a, d := dates.Day(actual), dates.Day(due)
	if !a.After(d) {
		return 0
	}
	diff := a.Sub(d)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Calculate returns the fine owed for returning on actual an item due on due:
// zero when not late, otherwise a flat base plus a charge per day beyond the
// first. Overdue reports pass the current time as actual.
func Calculate(actual, due time.Time) int {
	n := DaysLate(actual, due)
	if n == 0 {
		return 0
	}
	return Base + (n-1)*PerLateDay
}

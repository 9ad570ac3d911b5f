// Package ledger holds the pure calculations behind the finance API:
// monthly aggregation of transactions, the debt balance mutation rules,
// and the debt payoff projection. Nothing in this package performs I/O.
package ledger

import (
	"fmt"
	"time"
)

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates year and month and returns the matching Period.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("year must be between 1 and 9999, got %d", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// First returns the first day of the period at midnight UTC.
func (p Period) First() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the period at midnight UTC.
func (p Period) Last() time.Time {
	return p.First().AddDate(0, 1, -1)
}

// Days returns the number of days in the period.
func (p Period) Days() int {
	return p.Last().Day()
}

// Contains reports whether the stored date t lies within the period, both
// ends inclusive. Stored dates are UTC midnights, so t is read in UTC
// whatever zone the driver handed it back in.
func (p Period) Contains(t time.Time) bool {
	d := StoredDate(t)
	return !d.Before(p.First()) && !d.After(p.Last())
}

// DateOf strips the clock from t and returns its calendar date, as seen in
// t's own zone, at midnight UTC. It turns user input into a stored date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StoredDate reads back a date produced by DateOf. Databases may return
// the instant in another zone; converting to UTC recovers the calendar day.
func StoredDate(t time.Time) time.Time {
	return DateOf(t.UTC())
}

package model

import (
	"fmt"
	"time"
)

// Period is the reporting window all transaction dates must fall within.
// The pipeline processes exactly one calendar month per run.
type Period struct {
	Year  int
	Month time.Month
}

// DefaultPeriod is the reference reporting window (January 2024).
func DefaultPeriod() Period {
	return Period{Year: 2024, Month: time.January}
}

// Start returns the first day of the period at midnight UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period at midnight UTC.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Contains reports whether t falls within the period, inclusive on both ends.
// Only the calendar date is considered; time-of-day is ignored.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start()) && !d.After(p.End())
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

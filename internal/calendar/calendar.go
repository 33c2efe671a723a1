// Package calendar holds the date arithmetic shared by streaks, bill
// projection and the dashboard. Every date is a time.Time at UTC midnight;
// the functions are pure.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ISOLayout is the only accepted wire format for calendar dates.
const ISOLayout = "2006-01-02"

// ErrInvalidFormat is returned when a string is not a strict YYYY-MM-DD date.
var ErrInvalidFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// ParseISODate parses a strict YYYY-MM-DD date into UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	if len(s) != len(ISOLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// FormatISODate renders d as YYYY-MM-DD.
func FormatISODate(d time.Time) string {
	return d.Format(ISOLayout)
}

// Date builds a UTC midnight date. Out-of-range days normalize the way
// time.Date does, so callers clamp first when that matters.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today truncates an instant to its UTC calendar day.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return Date(now.Year(), now.Month(), now.Day())
}

// LastDayOfMonth returns the number of days in month of year.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns min(day, LastDayOfMonth(year, month)).
func ClampDay(day, year int, month time.Month) int {
	if last := LastDayOfMonth(year, month); day > last {
		return last
	}
	return day
}

// NextMonth rolls December over to January of the following year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// AddDays shifts d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = Today(a)
	b = Today(b)
	return int(b.Sub(a).Hours() / 24)
}

// MonthBounds returns the first and last day of d's month.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	first := Date(d.Year(), d.Month(), 1)
	last := Date(d.Year(), d.Month(), LastDayOfMonth(d.Year(), d.Month()))
	return first, last
}

// MonthPrefix returns the "YYYY-MM" prefix shared by every ISO date in d's month.
func MonthPrefix(d time.Time) string {
	return d.Format("2006-01")
}

// Window returns the inclusive range of days ending at ref, oldest first.
// Window(ref, 7) is ref-6 .. ref.
func Window(ref time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	out := make([]time.Time, days)
	start := AddDays(Today(ref), -(days - 1))
	for i := range out {
		out[i] = AddDays(start, i)
	}
	return out
}

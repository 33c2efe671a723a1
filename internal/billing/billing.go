// Package billing expands monthly billing rules into concrete due dates.
//
// A rule fires once per calendar month on its due day, clamped to the last
// day of short months. Project scans every month overlapping a date range;
// Upcoming looks only at the single next occurrence from a reference date.
// Both go through dueIn so they agree on clamping and rollover.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"lifeboard/internal/calendar"
)

// Rule is a recurring monthly due date tied to an outstanding balance.
type Rule struct {
	SourceID    string
	Name        string
	DueDay      *int
	Outstanding decimal.Decimal
}

// Active reports whether the rule can produce events at all.
func (r Rule) Active() bool {
	return r.DueDay != nil && *r.DueDay >= 1 && *r.DueDay <= 31 && r.Outstanding.IsPositive()
}

// Event is one concrete bill due date.
type Event struct {
	ID       string
	SourceID string
	Name     string
	Date     time.Time
	Amount   decimal.Decimal
	DueDay   int
}

// Upcoming is the next occurrence of a rule within a lookahead window.
type Upcoming struct {
	Event
	DaysLeft int
}

// dueIn returns the rule's due date inside the given month.
func dueIn(day, year int, month time.Month) time.Time {
	return calendar.Date(year, month, calendar.ClampDay(day, year, month))
}

// NextDueOnOrAfter returns the first due date that is not before ref:
// this month's due date, or next month's if it has already passed.
func NextDueOnOrAfter(day int, ref time.Time) time.Time {
	ref = calendar.Today(ref)
	due := dueIn(day, ref.Year(), ref.Month())
	if due.Before(ref) {
		y, m := calendar.NextMonth(ref.Year(), ref.Month())
		due = dueIn(day, y, m)
	}
	return due
}

// NextDueAfter returns the first due date strictly after ref, i.e. the next
// occurrence once the bill on ref has already been handled.
func NextDueAfter(day int, ref time.Time) time.Time {
	ref = calendar.Today(ref)
	due := dueIn(day, ref.Year(), ref.Month())
	if !due.After(ref) {
		y, m := calendar.NextMonth(ref.Year(), ref.Month())
		due = dueIn(day, y, m)
	}
	return due
}

// Project emits every due date of every active rule inside [start, end].
// Events come out month by month, rules in input order within a month.
func Project(rules []Rule, start, end time.Time) []Event {
	start = calendar.Today(start)
	end = calendar.Today(end)
	if end.Before(start) {
		return nil
	}

	var events []Event
	year, month := start.Year(), start.Month()
	for !calendar.Date(year, month, 1).After(end) {
		for _, r := range rules {
			if !r.Active() {
				continue
			}
			due := dueIn(*r.DueDay, year, month)
			if due.Before(start) || due.After(end) {
				continue
			}
			events = append(events, newEvent(r, due))
		}
		year, month = calendar.NextMonth(year, month)
	}
	return events
}

// UpcomingWithin returns, for each active rule, its next occurrence on or after ref
// when that falls within withinDays days.
func UpcomingWithin(rules []Rule, ref time.Time, withinDays int) []Upcoming {
	ref = calendar.Today(ref)

	var out []Upcoming
	for _, r := range rules {
		if !r.Active() {
			continue
		}
		due := NextDueOnOrAfter(*r.DueDay, ref)
		diff := calendar.DaysBetween(ref, due)
		if diff < 0 || diff > withinDays {
			continue
		}
		out = append(out, Upcoming{Event: newEvent(r, due), DaysLeft: diff})
	}
	return out
}

func newEvent(r Rule, due time.Time) Event {
	return Event{
		ID:       fmt.Sprintf("bill-%s-%d-%d", r.SourceID, due.Year(), int(due.Month())),
		SourceID: r.SourceID,
		Name:     r.Name,
		Date:     due,
		Amount:   r.Outstanding,
		DueDay:   *r.DueDay,
	}
}

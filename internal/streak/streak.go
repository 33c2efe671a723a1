// Package streak computes consecutive-day completion streaks.
//
// Two views exist. Advance is the event-driven counter kept on a goal and
// bumped when one of its steps transitions to complete. Current derives a
// streak from a history of per-day records, used for daily routines where
// completion is computed rather than stored.
package streak

import (
	"sort"
	"time"

	"lifeboard/internal/calendar"
)

// State is the persisted streak counter of a trackable entity.
type State struct {
	Count    int
	LastDate *time.Time
}

// Advance applies a completion event that happened on today.
//
//   - already advanced today: unchanged
//   - last advance was yesterday: Count+1
//   - anything else, including no prior streak: reset to 1
//
// The returned bool reports whether the state changed.
func Advance(s State, today time.Time) (State, bool) {
	today = calendar.Today(today)

	if s.LastDate != nil {
		last := calendar.Today(*s.LastDate)
		switch calendar.DaysBetween(last, today) {
		case 0:
			return s, false
		case 1:
			return State{Count: s.Count + 1, LastDate: &today}, true
		}
	}
	return State{Count: 1, LastDate: &today}, true
}

// Record is one day's completion state for a trackable entity.
type Record struct {
	Date     time.Time
	Complete bool
	// WrittenAt breaks ties between duplicate records for the same date.
	WrittenAt time.Time
}

// Summary is the read-only streak view.
type Summary struct {
	CurrentStreak  int  `json:"current_streak"`
	TodayCompleted bool `json:"today_completed"`
}

// AllDone reports whether a day counts: at least one entry and every entry done.
func AllDone(flags []bool) bool {
	if len(flags) == 0 {
		return false
	}
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

// Current walks the history backwards from today.
//
// A completed today contributes 1. The scan then starts at yesterday
// regardless of whether today counted, and every earlier day must be both
// present and complete to extend the streak; the first gap or incomplete day
// ends it. Records dated after today are ignored.
func Current(records []Record, today time.Time) Summary {
	today = calendar.Today(today)
	byDate := latestPerDay(records)

	var out Summary
	if r, ok := byDate[today]; ok && r.Complete {
		out.CurrentStreak = 1
		out.TodayCompleted = true
	}

	historical := make([]Record, 0, len(byDate))
	for d, r := range byDate {
		if d.Before(today) {
			historical = append(historical, r)
		}
	}
	sort.Slice(historical, func(i, j int) bool {
		return historical[i].Date.After(historical[j].Date)
	})

	check := calendar.AddDays(today, -1)
	for _, r := range historical {
		d := calendar.Today(r.Date)
		if d.After(check) {
			continue
		}
		if d.Before(check) || !r.Complete {
			break
		}
		out.CurrentStreak++
		check = calendar.AddDays(check, -1)
	}
	return out
}

// latestPerDay keeps one record per calendar day, the most recently written.
func latestPerDay(records []Record) map[time.Time]Record {
	out := make(map[time.Time]Record, len(records))
	for _, r := range records {
		d := calendar.Today(r.Date)
		r.Date = d
		if prev, ok := out[d]; ok && prev.WrittenAt.After(r.WrittenAt) {
			continue
		}
		out[d] = r
	}
	return out
}

package models

import "lifeboard/internal/streak"

// RoutineEntry is one time slot of a daily routine.
type RoutineEntry struct {
	Slot      string `json:"slot" binding:"required"`
	Title     string `json:"title" binding:"required,max=200"`
	Category  string `json:"category,omitempty"`
	Duration  int    `json:"duration,omitempty" binding:"omitempty,min=0,max=1440"`
	Note      string `json:"note,omitempty"`
	Completed bool   `json:"completed"`
}

// DailyRoutine holds one user's routine for one calendar day.
type DailyRoutine struct {
	Base
	UserID  string         `gorm:"type:uuid;not null;uniqueIndex:idx_routine_user_date" json:"user_id"`
	Date    string         `gorm:"size:10;not null;uniqueIndex:idx_routine_user_date" json:"date"`
	Entries []RoutineEntry `gorm:"serializer:json;type:text;not null" json:"entries"`
}

// IsComplete reports whether the day counts toward a streak: at least one
// entry and every entry completed.
func (r *DailyRoutine) IsComplete() bool {
	flags := make([]bool, len(r.Entries))
	for i, e := range r.Entries {
		flags[i] = e.Completed
	}
	return streak.AllDone(flags)
}

// RoutineTemplate is a reusable set of routine entries.
type RoutineTemplate struct {
	Base
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string         `gorm:"size:100;not null" json:"name"`
	Entries []RoutineEntry `gorm:"serializer:json;type:text;not null" json:"entries"`
}

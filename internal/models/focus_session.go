package models

import "time"

// SessionType distinguishes work intervals from breaks.
type SessionType string

const (
	SessionTypePomodoro   SessionType = "pomodoro"
	SessionTypeShortBreak SessionType = "short_break"
	SessionTypeLongBreak  SessionType = "long_break"
)

// FocusSession is one finished pomodoro timer run.
type FocusSession struct {
	Base
	UserID          string      `gorm:"type:uuid;not null;index" json:"user_id"`
	DurationSeconds int         `gorm:"not null" json:"duration_seconds"`
	Type            SessionType `gorm:"not null" json:"type"`
	CompletedAt     time.Time   `gorm:"not null;index" json:"completed_at"`
}

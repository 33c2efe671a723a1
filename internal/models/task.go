package models

// Priority is shared by tasks, goals and projects.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a standalone to-do item.
type Task struct {
	Base
	UserID      string   `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string   `gorm:"not null" json:"title"`
	Priority    Priority `gorm:"not null;default:'medium'" json:"priority"`
	IsCompleted bool     `gorm:"not null;default:false" json:"is_completed"`
}

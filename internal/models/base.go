package models

import (
	"time"

	"lifeboard/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// GetID exposes the primary key to generic store helpers.
func (b Base) GetID() string { return b.ID }

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Task{},
		&FocusSession{},
		&DailyRoutine{},
		&RoutineTemplate{},
		&GymDay{},
		&MoneyTransaction{},
		&CreditCard{},
		&LendingRecord{},
		&LendingEntry{},
		&Goal{},
		&GoalStep{},
		&GoalDependency{},
		&InterviewApplication{},
		&Project{},
		&ProjectTask{},
		&AuditLog{},
	}
}

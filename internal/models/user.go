package models

// User is the owner every other record is scoped to. Credentials live with
// the identity provider that issues access tokens, not here.
type User struct {
	Base
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `json:"display_name"`
	// DailyGoal is the number of focus sessions the user aims for per day.
	DailyGoal int  `gorm:"not null;default:8" json:"daily_goal"`
	IsActive  bool `gorm:"default:true" json:"is_active"`
}

package models

// GymDay holds the daily fitness counters for one date.
type GymDay struct {
	Base
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:idx_gym_user_date" json:"user_id"`
	Date         string `gorm:"size:10;not null;uniqueIndex:idx_gym_user_date" json:"date"`
	WaterGlasses int    `gorm:"not null;default:0" json:"water_glasses"`
	Pushups      int    `gorm:"not null;default:0" json:"pushups"`
	Pullups      int    `gorm:"not null;default:0" json:"pullups"`
}

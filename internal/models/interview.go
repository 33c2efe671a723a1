package models

import "time"

// InterviewQuestion is one entry of an application's question bank.
type InterviewQuestion struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer,omitempty"`
	Round    string `json:"round,omitempty"`
}

// Interviewer is a person met during the interview process.
type Interviewer struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

// InterviewApplication tracks one job application through its stages.
type InterviewApplication struct {
	Base
	UserID        string              `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyName   string              `gorm:"not null" json:"company_name"`
	Role          string              `gorm:"not null" json:"role"`
	Stage         string              `gorm:"not null;default:'Applied';index" json:"stage"`
	AppliedDate   *time.Time          `json:"applied_date"`
	InterviewDate *time.Time          `gorm:"index" json:"interview_date"`
	Questions     []InterviewQuestion `gorm:"serializer:json;type:text" json:"questions"`
	Interviewers  []Interviewer       `gorm:"serializer:json;type:text" json:"interviewers"`
	Notes         string              `json:"notes"`
}

// StageOffer is the pipeline stage counted as an offer.
const StageOffer = "Offer"

package models

// Project status values.
const (
	ProjectStatusBacklog    = "backlog"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusReview     = "review"
	ProjectStatusDone       = "done"
)

// Project groups project tasks.
type Project struct {
	Base
	UserID   string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string        `gorm:"not null" json:"name"`
	Status   string        `gorm:"not null;default:'backlog'" json:"status"`
	Priority Priority      `gorm:"not null;default:'medium'" json:"priority"`
	Color    string        `json:"color"`
	Archived bool          `gorm:"not null;default:false" json:"archived"`
	Tasks    []ProjectTask `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// IsActive reports whether the project is being worked on.
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusInProgress || p.Status == ProjectStatusReview
}

// ProjectTask is a task that belongs to a project.
type ProjectTask struct {
	Base
	ProjectID   string   `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string   `gorm:"not null" json:"title"`
	Priority    Priority `gorm:"not null;default:'medium'" json:"priority"`
	IsCompleted bool     `gorm:"not null;default:false" json:"is_completed"`
}

package models

// GoalType separates short- and long-horizon goals.
type GoalType string

const (
	GoalTypeShort GoalType = "short"
	GoalTypeLong  GoalType = "long"
)

// GoalStatus is the kanban column of a goal.
type GoalStatus string

const (
	GoalStatusTodo       GoalStatus = "todo"
	GoalStatusInProgress GoalStatus = "inprogress"
	GoalStatusDone       GoalStatus = "done"
)

// Goal is a user goal with optional checklist steps and a completion streak.
type Goal struct {
	Base
	UserID      string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        GoalType   `gorm:"not null;default:'short'" json:"type"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Deadline    *string    `gorm:"size:10;index" json:"deadline"`
	Priority    Priority   `gorm:"not null;default:'medium'" json:"priority"`
	Status      GoalStatus `gorm:"not null;default:'todo'" json:"status"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	IsArchived  bool       `gorm:"not null;default:false" json:"is_archived"`
	IsPinned    bool       `gorm:"not null;default:false" json:"is_pinned"`
	Notes       string     `json:"notes"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0" json:"order"`
	Recurrence  string     `json:"recurrence"`
	ProjectID   *string    `gorm:"type:uuid" json:"project_id"`

	StreakCount    int     `gorm:"not null;default:0" json:"streak_count"`
	LastStreakDate *string `gorm:"size:10" json:"last_streak_date"`
	// Version guards streak read-modify-write with compare-and-swap.
	Version int `gorm:"not null;default:0" json:"-"`

	Steps         []GoalStep `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"steps"`
	DependencyIDs []string   `gorm:"-" json:"dependency_ids"`
}

// GetVersion implements store.Versioned.
func (g *Goal) GetVersion() int { return g.Version }

// SetVersion implements store.Versioned.
func (g *Goal) SetVersion(v int) { g.Version = v }

// GoalStep is one checklist item of a goal.
type GoalStep struct {
	Base
	GoalID      string  `gorm:"type:uuid;not null;index" json:"goal_id"`
	Text        string  `gorm:"not null" json:"text"`
	Done        bool    `gorm:"not null;default:false" json:"done"`
	IsMilestone bool    `gorm:"not null;default:false" json:"is_milestone"`
	Deadline    *string `gorm:"size:10" json:"deadline"`
}

// GoalDependency is one edge of the goal dependency graph. The dependent
// goal owns the edge; reverse lookups query by DependsOnID.
type GoalDependency struct {
	GoalID      string `gorm:"type:uuid;primaryKey" json:"goal_id"`
	DependsOnID string `gorm:"type:uuid;primaryKey;index" json:"depends_on_id"`
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
}

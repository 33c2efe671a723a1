package dashboard

import (
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// Snapshot is the dashboard payload for one owner and reference day.
type Snapshot struct {
	Tasks          TaskSection           `json:"tasks"`
	TodayPomodoros int64                 `json:"today_pomodoros"`
	WeeklySessions []services.DayCount   `json:"weekly_sessions"`
	Routine        []models.RoutineEntry `json:"routine"`
	Gym            services.GymMetrics   `json:"gym"`
	Finance        FinanceSection        `json:"finance"`
	UpcomingBills  []UpcomingBill        `json:"upcoming_bills"`
	Goals          GoalSection           `json:"goals"`
	Interviews     InterviewSection      `json:"interviews"`
	Projects       ProjectSection        `json:"projects"`
}

// TaskSection holds task counters and the newest open tasks.
type TaskSection struct {
	Stats          services.TaskStats `json:"stats"`
	PendingPreview []TaskPreview      `json:"pending_preview"`
}

// TaskPreview is the short form of a task.
type TaskPreview struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Priority    models.Priority `json:"priority"`
	IsCompleted bool            `json:"is_completed"`
}

// FinanceSection holds the reference month's totals rendered to two decimals.
type FinanceSection struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// UpcomingBill is a credit card statement due within the lookahead window.
type UpcomingBill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Used     string `json:"used"`
	DueDay   int    `json:"due_date"`
	Date     string `json:"date"`
	DaysLeft int    `json:"days_left"`
}

// GoalSection summarizes the owner's unarchived goals.
type GoalSection struct {
	Total        int           `json:"total"`
	Active       int           `json:"active"`
	Done         int           `json:"done"`
	Streaks      []GoalStreak  `json:"streaks"`
	RecentActive []GoalPreview `json:"recent_active"`
}

// GoalStreak is one entry of the streak leaderboard.
type GoalStreak struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Streak int    `json:"streak"`
	Color  string `json:"color"`
}

// GoalPreview is the short form of an active goal.
type GoalPreview struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Status     models.GoalStatus `json:"status"`
	Priority   models.Priority   `json:"priority"`
	Color      string            `json:"color"`
	Category   string            `json:"category"`
	Deadline   *string           `json:"deadline"`
	IsPinned   bool              `json:"is_pinned"`
	StepsTotal int               `json:"steps_total"`
	StepsDone  int               `json:"steps_done"`
}

// InterviewSection summarizes the application pipeline.
type InterviewSection struct {
	Total              int                 `json:"total"`
	Pipeline           map[string]int      `json:"pipeline"`
	Offers             int                 `json:"offers"`
	UpcomingInterviews []UpcomingInterview `json:"upcoming_interviews"`
}

// UpcomingInterview is an interview scheduled within the lookahead window.
type UpcomingInterview struct {
	ID       string `json:"id"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Stage    string `json:"stage"`
	Date     string `json:"date"`
	DaysLeft int    `json:"days_left"`
}

// ProjectSection summarizes unarchived projects.
type ProjectSection struct {
	Total  int              `json:"total"`
	Active int              `json:"active"`
	Recent []ProjectPreview `json:"recent"`
}

// ProjectPreview is the short form of an active project.
type ProjectPreview struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Color      string          `json:"color"`
	Priority   models.Priority `json:"priority"`
	TotalTasks int             `json:"total_tasks"`
	DoneTasks  int             `json:"done_tasks"`
}

func emptyGoals() GoalSection {
	return GoalSection{Streaks: []GoalStreak{}, RecentActive: []GoalPreview{}}
}

func emptyInterviews() InterviewSection {
	return InterviewSection{Pipeline: map[string]int{}, UpcomingInterviews: []UpcomingInterview{}}
}

func emptyProjects() ProjectSection {
	return ProjectSection{Recent: []ProjectPreview{}}
}

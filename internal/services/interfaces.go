package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lifeboard/internal/billing"
	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/streak"
)

// UserServicer defines the contract for user lookups.
type UserServicer interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetOrCreateByEmail(ctx context.Context, email, displayName string) (*models.User, error)
}

// TaskStats counts a user's standalone tasks.
type TaskStats struct {
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// TaskServicer defines the read side of tasks used by the dashboard.
type TaskServicer interface {
	GetStats(ctx context.Context, userID string) (*TaskStats, error)
	GetPendingPreview(ctx context.Context, userID string, limit int) ([]models.Task, error)
}

// DayCount is one bucket of a per-day series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SessionInput holds the fields of a finished timer run.
type SessionInput struct {
	Type            models.SessionType
	DurationSeconds int
	CompletedAt     time.Time
}

// SessionServicer defines the contract for focus sessions and their statistics.
type SessionServicer interface {
	CreateSession(ctx context.Context, userID string, in SessionInput) (*models.FocusSession, error)
	CountPomodorosOn(ctx context.Context, userID string, day time.Time) (int64, error)
	WeeklySeries(ctx context.Context, userID string, ref time.Time) ([]DayCount, error)
}

// RoutineDay is the routine stored for one date, or an empty one.
type RoutineDay struct {
	Date    string                `json:"date"`
	Entries []models.RoutineEntry `json:"entries"`
}

// RoutineCalendarDay summarizes one saved routine for calendar highlighting.
type RoutineCalendarDay struct {
	Date        string `json:"date"`
	Count       int    `json:"count"`
	IsCompleted bool   `json:"is_completed"`
}

// RoutineServicer defines the contract for daily routines and their streak.
type RoutineServicer interface {
	GetRoutine(ctx context.Context, userID string, date time.Time) (*RoutineDay, error)
	SaveRoutine(ctx context.Context, userID string, date time.Time, entries []models.RoutineEntry) (*RoutineDay, error)
	GetCalendar(ctx context.Context, userID string) ([]RoutineCalendarDay, error)
	GetStreak(ctx context.Context, userID string, today time.Time) (*streak.Summary, error)
	ListTemplates(ctx context.Context, userID string) ([]models.RoutineTemplate, error)
	CreateTemplate(ctx context.Context, userID, name string, entries []models.RoutineEntry) (*models.RoutineTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error
}

// GymMetrics are the daily fitness counters, zero when nothing was logged.
type GymMetrics struct {
	WaterGlasses int `json:"water_glasses"`
	Pushups      int `json:"pushups"`
	Pullups      int `json:"pullups"`
}

// GymServicer defines the contract for gym day lookups.
type GymServicer interface {
	GetDay(ctx context.Context, userID string, date time.Time) (*GymMetrics, error)
}

// MonthFilter selects one calendar month.
type MonthFilter struct {
	Year  int
	Month time.Month
}

// MonthlyTotals sums a month's transactions by kind.
type MonthlyTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryAmount is one slice of the expense breakdown.
type CategoryAmount struct {
	Name  string
	Value decimal.Decimal
}

// MoneySummary is the finance overview for one month.
type MoneySummary struct {
	Totals            MonthlyTotals
	CategoryBreakdown []CategoryAmount
	CreditCards       []models.CreditCard
}

// CardInput holds the fields of a new credit card.
type CardInput struct {
	Name       string
	Limit      decimal.Decimal
	Used       decimal.Decimal
	TotalSpend decimal.Decimal
	Color      string
	DueDay     *int
}

// FinanceServicer defines the contract for money transactions and cards.
type FinanceServicer interface {
	GetMonthlyTotals(ctx context.Context, userID string, month MonthFilter) (*MonthlyTotals, error)
	GetSummary(ctx context.Context, userID string, month *MonthFilter) (*MoneySummary, error)
	ListTransactions(ctx context.Context, userID string, month *MonthFilter, page pagination.PageRequest) (*pagination.PageResponse[models.MoneyTransaction], error)
	CreateTransaction(ctx context.Context, userID string, kind models.TransactionKind, category string, amount decimal.Decimal, date time.Time) (*models.MoneyTransaction, error)
	CreateCard(ctx context.Context, userID string, in CardInput) (*models.CreditCard, error)
	GetBillingRules(ctx context.Context, userID string) ([]billing.Rule, error)
}

// LendingInput holds the fields of a new loan. Date stamps the initial
// history entries.
type LendingInput struct {
	Borrower  string
	TotalLent decimal.Decimal
	Returned  decimal.Decimal
	DueDate   *string
	Notes     string
	Date      time.Time
}

// ReturnInput is one repayment on a loan.
type ReturnInput struct {
	Amount decimal.Decimal
	Date   time.Time
	Notes  string
}

// LendingServicer defines the contract for money lent out.
type LendingServicer interface {
	ListLending(ctx context.Context, userID string) ([]models.LendingRecord, error)
	GetLending(ctx context.Context, userID, lendingID string) (*models.LendingRecord, error)
	CreateLending(ctx context.Context, userID string, in LendingInput) (*models.LendingRecord, error)
	RecordReturn(ctx context.Context, userID, lendingID string, in ReturnInput) (*models.LendingRecord, error)
	DeleteLending(ctx context.Context, userID, lendingID string) error
}

// StepInput holds the fields of a new goal step.
type StepInput struct {
	Text        string
	Done        bool
	IsMilestone bool
	Deadline    *string
}

// GoalInput holds the fields of a new goal.
type GoalInput struct {
	Type          models.GoalType
	Title         string
	Description   string
	Deadline      *string
	Priority      models.Priority
	Status        models.GoalStatus
	Category      string
	Color         string
	IsArchived    bool
	IsPinned      bool
	Notes         string
	Order         int
	Recurrence    string
	ProjectID     *string
	DependencyIDs []string
	Steps         []StepInput
}

// GoalPatch lists the goal fields an update may change; nil leaves a field as
// is. Empty Deadline or ProjectID clears it. A non-nil Steps replaces every
// step and a non-nil DependencyIDs replaces every dependency edge.
type GoalPatch struct {
	Title         *string
	Description   *string
	Deadline      *string
	Priority      *models.Priority
	Status        *models.GoalStatus
	Category      *string
	Color         *string
	IsArchived    *bool
	IsPinned      *bool
	Notes         *string
	Order         *int
	Recurrence    *string
	ProjectID     *string
	DependencyIDs []string
	Steps         []StepInput
}

// StepPatch lists the step fields a PATCH may change; nil leaves a field as is.
// An empty Deadline clears it.
type StepPatch struct {
	Done        *bool
	Text        *string
	IsMilestone *bool
	Deadline    *string
}

// StepUpdate is a patched step together with its goal's streak fields.
type StepUpdate struct {
	Step           models.GoalStep `json:"step"`
	StreakCount    int             `json:"streak_count"`
	LastStreakDate *string         `json:"last_streak_date"`
	StreakAdvanced bool            `json:"streak_advanced"`
}

// GoalServicer defines the contract for goals, their steps and dependencies.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID string, in GoalInput) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string, goalType *models.GoalType, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	ListUnarchived(ctx context.Context, userID string) ([]models.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, patch GoalPatch) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	AddStep(ctx context.Context, userID, goalID string, in StepInput) (*models.GoalStep, error)
	DeleteStep(ctx context.Context, userID, goalID, stepID string) error
	UpdateStep(ctx context.Context, userID, goalID, stepID string, patch StepPatch, today time.Time) (*StepUpdate, error)
	AdvanceStreak(ctx context.Context, userID, goalID string, today time.Time) (*models.Goal, bool, error)
	SetDependencies(ctx context.Context, userID, goalID string, dependsOn []string) (*models.Goal, error)
	GetDependents(ctx context.Context, userID, goalID string) ([]models.Goal, error)
}

// InterviewServicer defines the read side of interview applications.
type InterviewServicer interface {
	ListApplications(ctx context.Context, userID string) ([]models.InterviewApplication, error)
	ListScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]models.InterviewApplication, error)
}

// ProjectServicer defines the read side of projects.
type ProjectServicer interface {
	ListUnarchived(ctx context.Context, userID string) ([]models.Project, error)
}

// CalendarEvent is one entry of the merged calendar feed.
type CalendarEvent struct {
	ID          string `json:"id"`
	OriginalID  string `json:"original_id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Color       string `json:"color"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Company     string `json:"company,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

// CalendarServicer defines the contract for the merged calendar feed.
type CalendarServicer interface {
	GetEvents(ctx context.Context, userID string, start, end time.Time) ([]CalendarEvent, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

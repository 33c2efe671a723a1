package dashboard

import (
	"context"
	"time"

	"lifeboard/internal/billing"
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// TaskSource reads task counters and the pending preview.
type TaskSource interface {
	GetStats(ctx context.Context, userID string) (*services.TaskStats, error)
	GetPendingPreview(ctx context.Context, userID string, limit int) ([]models.Task, error)
}

// SessionSource reads focus-session statistics.
type SessionSource interface {
	CountPomodorosOn(ctx context.Context, userID string, day time.Time) (int64, error)
	WeeklySeries(ctx context.Context, userID string, ref time.Time) ([]services.DayCount, error)
}

// RoutineSource reads the routine of one day.
type RoutineSource interface {
	GetRoutine(ctx context.Context, userID string, date time.Time) (*services.RoutineDay, error)
}

// GymSource reads the gym counters of one day.
type GymSource interface {
	GetDay(ctx context.Context, userID string, date time.Time) (*services.GymMetrics, error)
}

// FinanceSource reads monthly totals and the billing rules of credit cards.
type FinanceSource interface {
	GetMonthlyTotals(ctx context.Context, userID string, month services.MonthFilter) (*services.MonthlyTotals, error)
	GetBillingRules(ctx context.Context, userID string) ([]billing.Rule, error)
}

// GoalSource lists goals that are not archived.
type GoalSource interface {
	ListUnarchived(ctx context.Context, userID string) ([]models.Goal, error)
}

// InterviewSource lists interview applications.
type InterviewSource interface {
	ListApplications(ctx context.Context, userID string) ([]models.InterviewApplication, error)
}

// ProjectSource lists projects that are not archived.
type ProjectSource interface {
	ListUnarchived(ctx context.Context, userID string) ([]models.Project, error)
}

// Sources groups the collaborators the aggregator reads from.
type Sources struct {
	Tasks      TaskSource
	Sessions   SessionSource
	Routines   RoutineSource
	Gym        GymSource
	Finance    FinanceSource
	Goals      GoalSource
	Interviews InterviewSource
	Projects   ProjectSource
}

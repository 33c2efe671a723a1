// Package dashboard assembles the cross-domain dashboard snapshot.
//
// Core sections (tasks, sessions, routine, gym, finance, bills) fail the
// whole snapshot when their source fails. Goals, interviews and projects are
// each computed behind their own Result and fall back to an empty section,
// with the failure logged.
package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lifeboard/internal/calendar"
	"lifeboard/internal/logger"
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// Request identifies whose dashboard to build and for which day.
type Request struct {
	OwnerID string
	// Today is the caller's local reference date at UTC midnight.
	Today time.Time
	// Now anchors the interview lookahead window.
	Now time.Time
}

// Options tunes the aggregator.
type Options struct {
	Concurrency           int
	UpcomingBillDays      int
	UpcomingInterviewDays int
}

// Result carries the outcome of a section that is allowed to fail.
type Result[T any] struct {
	Value T
	Err   error
}

func resultOf[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// Aggregator builds dashboard snapshots.
type Aggregator struct {
	src  Sources
	opts Options
	log  *zap.SugaredLogger
}

// NewAggregator creates an Aggregator. Zero options fall back to defaults.
func NewAggregator(src Sources, opts Options) *Aggregator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.UpcomingBillDays <= 0 {
		opts.UpcomingBillDays = 5
	}
	if opts.UpcomingInterviewDays <= 0 {
		opts.UpcomingInterviewDays = 7
	}
	return &Aggregator{src: src, opts: opts, log: logger.Component("dashboard")}
}

// Snapshot computes the dashboard for req.
func (a *Aggregator) Snapshot(ctx context.Context, req Request) (*Snapshot, error) {
	owner := req.OwnerID
	today := calendar.Today(req.Today)
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	snap := &Snapshot{}
	var (
		goals      Result[GoalSection]
		interviews Result[InterviewSection]
		projects   Result[ProjectSection]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	g.Go(func() error {
		stats, err := a.src.Tasks.GetStats(gctx, owner)
		if err != nil {
			return err
		}
		preview, err := a.src.Tasks.GetPendingPreview(gctx, owner, pendingPreviewSize)
		if err != nil {
			return err
		}
		snap.Tasks = TaskSection{Stats: *stats, PendingPreview: taskPreviews(preview)}
		return nil
	})
	g.Go(func() error {
		n, err := a.src.Sessions.CountPomodorosOn(gctx, owner, today)
		if err != nil {
			return err
		}
		snap.TodayPomodoros = n
		return nil
	})
	g.Go(func() error {
		series, err := a.src.Sessions.WeeklySeries(gctx, owner, today)
		if err != nil {
			return err
		}
		snap.WeeklySessions = series
		return nil
	})
	g.Go(func() error {
		routine, err := a.src.Routines.GetRoutine(gctx, owner, today)
		if err != nil {
			return err
		}
		snap.Routine = routine.Entries
		return nil
	})
	g.Go(func() error {
		gym, err := a.src.Gym.GetDay(gctx, owner, today)
		if err != nil {
			return err
		}
		snap.Gym = *gym
		return nil
	})
	g.Go(func() error {
		totals, err := a.src.Finance.GetMonthlyTotals(gctx, owner, services.MonthFilter{Year: today.Year(), Month: today.Month()})
		if err != nil {
			return err
		}
		snap.Finance = FinanceSection{Income: totals.Income.StringFixed(2), Expense: totals.Expense.StringFixed(2)}
		return nil
	})
	g.Go(func() error {
		rules, err := a.src.Finance.GetBillingRules(gctx, owner)
		if err != nil {
			return err
		}
		snap.UpcomingBills = upcomingBills(rules, today, a.opts.UpcomingBillDays)
		return nil
	})

	g.Go(func() error {
		goals = a.goalSection(gctx, owner)
		return nil
	})
	g.Go(func() error {
		interviews = a.interviewSection(gctx, owner, now)
		return nil
	})
	g.Go(func() error {
		projects = a.projectSection(gctx, owner)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Goals = degrade(a.log, owner, "goals", goals, emptyGoals())
	snap.Interviews = degrade(a.log, owner, "interviews", interviews, emptyInterviews())
	snap.Projects = degrade(a.log, owner, "projects", projects, emptyProjects())

	if snap.Routine == nil {
		snap.Routine = []models.RoutineEntry{}
	}
	return snap, nil
}

func (a *Aggregator) goalSection(ctx context.Context, owner string) Result[GoalSection] {
	goals, err := a.src.Goals.ListUnarchived(ctx, owner)
	if err != nil {
		return resultOf(GoalSection{}, err)
	}
	return resultOf(summarizeGoals(goals), nil)
}

func (a *Aggregator) interviewSection(ctx context.Context, owner string, now time.Time) Result[InterviewSection] {
	apps, err := a.src.Interviews.ListApplications(ctx, owner)
	if err != nil {
		return resultOf(InterviewSection{}, err)
	}
	within := time.Duration(a.opts.UpcomingInterviewDays) * 24 * time.Hour
	return resultOf(summarizeInterviews(apps, now, within), nil)
}

func (a *Aggregator) projectSection(ctx context.Context, owner string) Result[ProjectSection] {
	projects, err := a.src.Projects.ListUnarchived(ctx, owner)
	if err != nil {
		return resultOf(ProjectSection{}, err)
	}
	return resultOf(summarizeProjects(projects), nil)
}

func degrade[T any](log *zap.SugaredLogger, owner, section string, r Result[T], fallback T) T {
	if r.Err != nil {
		log.Warnw("dashboard section degraded",
			logger.FieldSection, section,
			logger.FieldUserID, owner,
			logger.FieldError, r.Err,
		)
		return fallback
	}
	return r.Value
}

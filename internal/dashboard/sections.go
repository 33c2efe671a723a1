package dashboard

import (
	"sort"
	"time"

	"lifeboard/internal/billing"
	"lifeboard/internal/calendar"
	"lifeboard/internal/models"
)

const (
	pendingPreviewSize  = 5
	streakLeaderboard   = 3
	recentGoalsSize     = 4
	upcomingInterviewsN = 5
	recentProjectsSize  = 4

	defaultGoalColor = "slate"
)

func taskPreviews(tasks []models.Task) []TaskPreview {
	out := make([]TaskPreview, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskPreview{ID: t.ID, Title: t.Title, Priority: t.Priority, IsCompleted: t.IsCompleted})
	}
	return out
}

func upcomingBills(rules []billing.Rule, today time.Time, withinDays int) []UpcomingBill {
	due := billing.UpcomingWithin(rules, today, withinDays)
	out := make([]UpcomingBill, 0, len(due))
	for _, u := range due {
		out = append(out, UpcomingBill{
			ID:       u.SourceID,
			Name:     u.Name,
			Used:     u.Amount.StringFixed(2),
			DueDay:   u.DueDay,
			Date:     calendar.FormatISODate(u.Date),
			DaysLeft: u.DaysLeft,
		})
	}
	return out
}

func goalColor(c string) string {
	if c == "" {
		return defaultGoalColor
	}
	return c
}

// summarizeGoals expects goals in creation order; ties in the leaderboard and
// among pinned goals keep that order. Done goals never enter the leaderboard.
func summarizeGoals(goals []models.Goal) GoalSection {
	out := emptyGoals()
	out.Total = len(goals)

	var active []models.Goal
	var streaking []models.Goal
	for _, g := range goals {
		if g.Status == models.GoalStatusDone {
			out.Done++
			continue
		}
		active = append(active, g)
		if g.StreakCount > 0 {
			streaking = append(streaking, g)
		}
	}
	out.Active = len(active)

	sort.SliceStable(streaking, func(i, j int) bool {
		return streaking[i].StreakCount > streaking[j].StreakCount
	})
	for i := 0; i < len(streaking) && i < streakLeaderboard; i++ {
		g := streaking[i]
		out.Streaks = append(out.Streaks, GoalStreak{ID: g.ID, Title: g.Title, Streak: g.StreakCount, Color: goalColor(g.Color)})
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].IsPinned && !active[j].IsPinned
	})
	for i := 0; i < len(active) && i < recentGoalsSize; i++ {
		g := active[i]
		done := 0
		for _, st := range g.Steps {
			if st.Done {
				done++
			}
		}
		out.RecentActive = append(out.RecentActive, GoalPreview{
			ID:         g.ID,
			Title:      g.Title,
			Status:     g.Status,
			Priority:   g.Priority,
			Color:      goalColor(g.Color),
			Category:   g.Category,
			Deadline:   g.Deadline,
			IsPinned:   g.IsPinned,
			StepsTotal: len(g.Steps),
			StepsDone:  done,
		})
	}
	return out
}

// summarizeInterviews counts applications per stage and lists interviews in
// [now, now+within]. Days left are whole days, floored.
func summarizeInterviews(apps []models.InterviewApplication, now time.Time, within time.Duration) InterviewSection {
	out := emptyInterviews()
	out.Total = len(apps)

	horizon := now.Add(within)
	var upcoming []UpcomingInterview
	for _, a := range apps {
		out.Pipeline[a.Stage]++
		if a.InterviewDate == nil {
			continue
		}
		at := *a.InterviewDate
		if at.Before(now) || at.After(horizon) {
			continue
		}
		upcoming = append(upcoming, UpcomingInterview{
			ID:       a.ID,
			Company:  a.CompanyName,
			Role:     a.Role,
			Stage:    a.Stage,
			Date:     at.UTC().Format(time.RFC3339),
			DaysLeft: int(at.Sub(now) / (24 * time.Hour)),
		})
	}
	out.Offers = out.Pipeline[models.StageOffer]

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysLeft < upcoming[j].DaysLeft
	})
	if len(upcoming) > upcomingInterviewsN {
		upcoming = upcoming[:upcomingInterviewsN]
	}
	out.UpcomingInterviews = append(out.UpcomingInterviews, upcoming...)
	return out
}

// summarizeProjects lists the most recently updated active projects.
func summarizeProjects(projects []models.Project) ProjectSection {
	out := emptyProjects()
	out.Total = len(projects)

	var active []models.Project
	for _, p := range projects {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	out.Active = len(active)

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].UpdatedAt.After(active[j].UpdatedAt)
	})
	for i := 0; i < len(active) && i < recentProjectsSize; i++ {
		p := active[i]
		done := 0
		for _, t := range p.Tasks {
			if t.IsCompleted {
				done++
			}
		}
		out.Recent = append(out.Recent, ProjectPreview{
			ID:         p.ID,
			Name:       p.Name,
			Status:     p.Status,
			Color:      p.Color,
			Priority:   p.Priority,
			TotalTasks: len(p.Tasks),
			DoneTasks:  done,
		})
	}
	return out
}

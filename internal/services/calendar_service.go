package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lifeboard/internal/billing"
	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// Calendar event types and their default colors.
const (
	EventTypeGoal      = "goal"
	EventTypeInterview = "interview"
	EventTypeBill      = "bill"

	defaultGoalColor      = "emerald"
	defaultInterviewColor = "indigo"
	defaultBillColor      = "rose"
)

// calendarService merges goal deadlines, interviews and projected bills.
type calendarService struct {
	db         *gorm.DB
	interviews InterviewServicer
}

// NewCalendarService creates a new CalendarServicer.
func NewCalendarService(db *gorm.DB, interviews InterviewServicer) CalendarServicer {
	return &calendarService{db: db, interviews: interviews}
}

// GetEvents returns every event dated within [start, end], grouped by type:
// goal deadlines, then interviews, then bill due dates.
func (s *calendarService) GetEvents(ctx context.Context, userID string, start, end time.Time) ([]CalendarEvent, error) {
	start, end = calendar.Today(start), calendar.Today(end)
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}
	events := []CalendarEvent{}

	goals, err := store.FindMany[models.Goal](ctx, s.db, userID, store.Query{
		Where: store.Filter{"is_archived": false},
		Scopes: []func(*gorm.DB) *gorm.DB{func(q *gorm.DB) *gorm.DB {
			return q.Where("deadline >= ? AND deadline <= ?", calendar.FormatISODate(start), calendar.FormatISODate(end))
		}},
		Order: "deadline ASC, created_at ASC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, g := range goals {
		events = append(events, CalendarEvent{
			ID:          "goal-" + g.ID,
			OriginalID:  g.ID,
			Title:       g.Title,
			Date:        *g.Deadline,
			Type:        EventTypeGoal,
			Color:       orDefault(g.Color, defaultGoalColor),
			Status:      string(g.Status),
			Description: g.Description,
		})
	}

	apps, err := s.interviews.ListScheduledBetween(ctx, userID, start, calendar.AddDays(end, 1))
	if err != nil {
		return nil, err
	}
	for _, a := range apps {
		events = append(events, CalendarEvent{
			ID:         "interview-" + a.ID,
			OriginalID: a.ID,
			Title:      fmt.Sprintf("%s at %s", a.Role, a.CompanyName),
			Date:       calendar.FormatISODate(a.InterviewDate.UTC()),
			Type:       EventTypeInterview,
			Color:      defaultInterviewColor,
			Stage:      a.Stage,
			Company:    a.CompanyName,
		})
	}

	rules, err := loadBillingRules(ctx, s.db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, b := range billing.Project(rules, start, end) {
		events = append(events, CalendarEvent{
			ID:         b.ID,
			OriginalID: b.SourceID,
			Title:      b.Name + " Bill Due",
			Date:       calendar.FormatISODate(b.Date),
			Type:       EventTypeBill,
			Color:      defaultBillColor,
			Amount:     b.Amount.StringFixed(2),
		})
	}

	return events, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// weeklyWindow is the number of days in the weekly session series.
const weeklyWindow = 7

// sessionService records focus sessions and computes their statistics.
type sessionService struct {
	db *gorm.DB
}

// NewSessionService creates a new SessionServicer.
func NewSessionService(db *gorm.DB) SessionServicer {
	return &sessionService{db: db}
}

func completedBetween(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("completed_at >= ? AND completed_at < ?", from, to)
	}
}

// CreateSession records a finished pomodoro or break.
func (s *sessionService) CreateSession(ctx context.Context, userID string, in SessionInput) (*models.FocusSession, error) {
	if in.DurationSeconds <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Duration must be positive")
	}
	switch in.Type {
	case models.SessionTypePomodoro, models.SessionTypeShortBreak, models.SessionTypeLongBreak:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid session type")
	}

	session := &models.FocusSession{
		UserID:          userID,
		Type:            in.Type,
		DurationSeconds: in.DurationSeconds,
		CompletedAt:     in.CompletedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// CountPomodorosOn counts pomodoro sessions finished during day (UTC).
func (s *sessionService) CountPomodorosOn(ctx context.Context, userID string, day time.Time) (int64, error) {
	start := calendar.Today(day)
	n, err := store.Count[models.FocusSession](ctx, s.db, userID, store.Query{
		Where:  store.Filter{"type": models.SessionTypePomodoro},
		Scopes: []func(*gorm.DB) *gorm.DB{completedBetween(start, calendar.AddDays(start, 1))},
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

// WeeklySeries returns pomodoro counts for the seven days ending on ref.
// Every day of the window is present, oldest first, even without sessions.
func (s *sessionService) WeeklySeries(ctx context.Context, userID string, ref time.Time) ([]DayCount, error) {
	days := calendar.Window(ref, weeklyWindow)
	start, end := days[0], calendar.AddDays(days[len(days)-1], 1)

	sessions, err := store.FindMany[models.FocusSession](ctx, s.db, userID, store.Query{
		Where:  store.Filter{"type": models.SessionTypePomodoro},
		Scopes: []func(*gorm.DB) *gorm.DB{completedBetween(start, end)},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	series := make([]DayCount, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := calendar.FormatISODate(d)
		series[i] = DayCount{Date: key}
		index[key] = i
	}
	for _, sess := range sessions {
		if i, ok := index[calendar.FormatISODate(sess.CompletedAt.UTC())]; ok {
			series[i].Count++
		}
	}
	return series, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
	"lifeboard/internal/streak"
)

// routineService handles daily routines, their streak and templates.
type routineService struct {
	db *gorm.DB
}

// NewRoutineService creates a new RoutineServicer.
func NewRoutineService(db *gorm.DB) RoutineServicer {
	return &routineService{db: db}
}

// GetRoutine returns the routine saved for date, or an empty one.
func (s *routineService) GetRoutine(ctx context.Context, userID string, date time.Time) (*RoutineDay, error) {
	key := calendar.FormatISODate(date)
	routine, err := store.FindOne[models.DailyRoutine](ctx, s.db, userID, store.Filter{"date": key})
	if errors.Is(err, store.ErrNotFound) {
		return &RoutineDay{Date: key, Entries: []models.RoutineEntry{}}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return toRoutineDay(routine), nil
}

// SaveRoutine replaces the entries stored for date, creating the day if needed.
func (s *routineService) SaveRoutine(ctx context.Context, userID string, date time.Time, entries []models.RoutineEntry) (*RoutineDay, error) {
	if entries == nil {
		entries = []models.RoutineEntry{}
	}
	key := calendar.FormatISODate(date)
	routine, err := store.Upsert(ctx, s.db, userID,
		&models.DailyRoutine{UserID: userID, Date: key, Entries: entries},
		store.Filter{"user_id": userID, "date": key},
		"entries",
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return toRoutineDay(routine), nil
}

// GetCalendar summarizes every saved routine, oldest first.
func (s *routineService) GetCalendar(ctx context.Context, userID string) ([]RoutineCalendarDay, error) {
	routines, err := store.FindMany[models.DailyRoutine](ctx, s.db, userID, store.Query{Order: "date ASC"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	days := make([]RoutineCalendarDay, 0, len(routines))
	for i := range routines {
		r := &routines[i]
		days = append(days, RoutineCalendarDay{
			Date:        r.Date,
			Count:       len(r.Entries),
			IsCompleted: r.IsComplete(),
		})
	}
	return days, nil
}

// GetStreak computes the routine completion streak as of today.
func (s *routineService) GetStreak(ctx context.Context, userID string, today time.Time) (*streak.Summary, error) {
	routines, err := store.FindMany[models.DailyRoutine](ctx, s.db, userID, store.Query{
		Scopes: []func(*gorm.DB) *gorm.DB{func(q *gorm.DB) *gorm.DB {
			return q.Where("date <= ?", calendar.FormatISODate(today))
		}},
		Order: "date DESC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]streak.Record, 0, len(routines))
	for i := range routines {
		r := &routines[i]
		d, err := calendar.ParseISODate(r.Date)
		if err != nil {
			// Rows are written through SaveRoutine, so this is corrupt data.
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		records = append(records, streak.Record{Date: d, Complete: r.IsComplete(), WrittenAt: r.UpdatedAt})
	}

	summary := streak.Current(records, today)
	return &summary, nil
}

// ListTemplates returns the user's templates, newest first.
func (s *routineService) ListTemplates(ctx context.Context, userID string) ([]models.RoutineTemplate, error) {
	templates, err := store.FindMany[models.RoutineTemplate](ctx, s.db, userID, store.Query{Order: "created_at DESC, id DESC"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// CreateTemplate stores a named set of routine entries.
func (s *routineService) CreateTemplate(ctx context.Context, userID, name string, entries []models.RoutineEntry) (*models.RoutineTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Template name is required")
	}
	if entries == nil {
		entries = []models.RoutineEntry{}
	}

	template := &models.RoutineTemplate{UserID: userID, Name: name, Entries: entries}
	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return template, nil
}

// DeleteTemplate removes one of the user's templates.
func (s *routineService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	return translate(store.Delete[models.RoutineTemplate](ctx, s.db, userID, templateID), apperrors.ErrTemplateNotFound)
}

func toRoutineDay(r *models.DailyRoutine) *RoutineDay {
	entries := r.Entries
	if entries == nil {
		entries = []models.RoutineEntry{}
	}
	return &RoutineDay{Date: r.Date, Entries: entries}
}

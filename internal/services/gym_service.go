package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// gymService reads daily gym counters.
type gymService struct {
	db *gorm.DB
}

// NewGymService creates a new GymServicer.
func NewGymService(db *gorm.DB) GymServicer {
	return &gymService{db: db}
}

// GetDay returns the counters logged for date, all zero when none were.
func (s *gymService) GetDay(ctx context.Context, userID string, date time.Time) (*GymMetrics, error) {
	day, err := store.FindOne[models.GymDay](ctx, s.db, userID, store.Filter{"date": calendar.FormatISODate(date)})
	if errors.Is(err, store.ErrNotFound) {
		return &GymMetrics{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &GymMetrics{
		WaterGlasses: day.WaterGlasses,
		Pushups:      day.Pushups,
		Pullups:      day.Pullups,
	}, nil
}

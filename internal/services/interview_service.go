package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// interviewService reads interview applications.
type interviewService struct {
	db *gorm.DB
}

// NewInterviewService creates a new InterviewServicer.
func NewInterviewService(db *gorm.DB) InterviewServicer {
	return &interviewService{db: db}
}

// ListApplications returns every application in creation order.
func (s *interviewService) ListApplications(ctx context.Context, userID string) ([]models.InterviewApplication, error) {
	apps, err := store.FindMany[models.InterviewApplication](ctx, s.db, userID, store.Query{Order: "created_at ASC, id ASC"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return apps, nil
}

// ListScheduledBetween returns applications with an interview in [from, to).
func (s *interviewService) ListScheduledBetween(ctx context.Context, userID string, from, to time.Time) ([]models.InterviewApplication, error) {
	apps, err := store.FindMany[models.InterviewApplication](ctx, s.db, userID, store.Query{
		Scopes: []func(*gorm.DB) *gorm.DB{func(q *gorm.DB) *gorm.DB {
			return q.Where("interview_date >= ? AND interview_date < ?", from.UTC(), to.UTC())
		}},
		Order: "interview_date ASC, id ASC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return apps, nil
}

package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// taskService handles the read side of standalone tasks.
type taskService struct {
	db *gorm.DB
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB) TaskServicer {
	return &taskService{db: db}
}

// GetStats counts completed and pending tasks.
func (s *taskService) GetStats(ctx context.Context, userID string) (*TaskStats, error) {
	var rows []struct {
		IsCompleted bool
		N           int64
	}
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Select("is_completed, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("is_completed").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &TaskStats{}
	for _, r := range rows {
		if r.IsCompleted {
			stats.Completed += r.N
		} else {
			stats.Pending += r.N
		}
	}
	return stats, nil
}

// GetPendingPreview returns up to limit open tasks, newest first.
func (s *taskService) GetPendingPreview(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	tasks, err := store.FindMany[models.Task](ctx, s.db, userID, store.Query{
		Where: store.Filter{"is_completed": false},
		Order: "created_at DESC, id DESC",
		Limit: limit,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tasks, nil
}

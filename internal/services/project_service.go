package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// projectService reads projects and their tasks.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// ListUnarchived returns every project that is not archived, with tasks loaded.
func (s *projectService) ListUnarchived(ctx context.Context, userID string) ([]models.Project, error) {
	projects, err := store.FindMany[models.Project](ctx, s.db, userID, store.Query{
		Where: store.Filter{"archived": false},
		Scopes: []func(*gorm.DB) *gorm.DB{func(q *gorm.DB) *gorm.DB {
			return q.Preload("Tasks")
		}},
		Order: "created_at ASC, id ASC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return projects, nil
}

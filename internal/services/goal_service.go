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
	"lifeboard/internal/pagination"
	"lifeboard/internal/store"
	"lifeboard/internal/streak"
)

// goalService handles goals, their steps, dependencies and streaks.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// CreateGoal creates a goal together with its initial steps and dependencies.
func (s *goalService) CreateGoal(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal title is required")
	}

	goal := &models.Goal{
		UserID:      userID,
		Type:        in.Type,
		Title:       title,
		Description: in.Description,
		Deadline:    nilIfBlank(in.Deadline),
		Priority:    in.Priority,
		Status:      in.Status,
		Category:    in.Category,
		Color:       in.Color,
		IsArchived:  in.IsArchived,
		IsPinned:    in.IsPinned,
		Notes:       in.Notes,
		SortOrder:   in.Order,
		Recurrence:  in.Recurrence,
		ProjectID:   in.ProjectID,
	}
	if goal.Type == "" {
		goal.Type = models.GoalTypeShort
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}
	if goal.Status == "" {
		goal.Status = models.GoalStatusTodo
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Create(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := createSteps(tx, goal.ID, in.Steps); err != nil {
			return err
		}
		return replaceDependencies(ctx, tx, userID, goal.ID, in.DependencyIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoal(ctx, userID, goal.ID)
}

// createSteps inserts the non-blank steps of a goal in order.
func createSteps(tx *gorm.DB, goalID string, steps []StepInput) error {
	for _, st := range steps {
		text := strings.TrimSpace(st.Text)
		if text == "" {
			continue
		}
		step := &models.GoalStep{
			GoalID:      goalID,
			Text:        text,
			Done:        st.Done,
			IsMilestone: st.IsMilestone,
			Deadline:    nilIfBlank(st.Deadline),
		}
		if err := tx.Create(step).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// ListGoals returns a page of goals ordered by their manual sort order,
// newest first within the same order.
func (s *goalService) ListGoals(ctx context.Context, userID string, goalType *models.GoalType, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	q := store.Query{Order: "sort_order ASC, created_at DESC"}
	if goalType != nil {
		q.Where = store.Filter{"type": *goalType}
	}

	resp, err := store.Page[models.Goal](ctx, s.db, userID, q, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := hydrateGoals(ctx, s.db, resp.Data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// ListUnarchived returns every goal that is not archived, in creation order,
// with steps loaded.
func (s *goalService) ListUnarchived(ctx context.Context, userID string) ([]models.Goal, error) {
	goals, err := store.FindMany[models.Goal](ctx, s.db, userID, store.Query{
		Where: store.Filter{"is_archived": false},
		Order: "created_at ASC, id ASC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := hydrateGoals(ctx, s.db, goals); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoal returns one goal with its steps and dependency ids.
func (s *goalService) GetGoal(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := store.FindOne[models.Goal](ctx, s.db, userID, store.Filter{"id": goalID})
	if err != nil {
		return nil, translate(err, apperrors.ErrGoalNotFound)
	}
	goals := []models.Goal{*goal}
	if err := hydrateGoals(ctx, s.db, goals); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goals[0], nil
}

// UpdateGoal applies a partial update to a goal. Streak fields are never
// touched here, but the version is bumped so an in-flight streak advance
// re-reads the row instead of overwriting these changes.
func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, patch GoalPatch) (*models.Goal, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			updates["title"] = title
		}
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Deadline != nil {
		updates["deadline"] = nilIfBlank(patch.Deadline)
	}
	if patch.Priority != nil && *patch.Priority != "" {
		updates["priority"] = *patch.Priority
	}
	if patch.Status != nil && *patch.Status != "" {
		updates["status"] = *patch.Status
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.IsArchived != nil {
		updates["is_archived"] = *patch.IsArchived
	}
	if patch.IsPinned != nil {
		updates["is_pinned"] = *patch.IsPinned
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.Order != nil {
		updates["sort_order"] = *patch.Order
	}
	if patch.Recurrence != nil {
		updates["recurrence"] = *patch.Recurrence
	}
	if patch.ProjectID != nil {
		updates["project_id"] = nilIfBlank(patch.ProjectID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := store.FindOne[models.Goal](ctx, tx, userID, store.Filter{"id": goalID}); err != nil {
			return translate(err, apperrors.ErrGoalNotFound)
		}

		if len(updates) > 0 {
			updates["version"] = gorm.Expr("version + ?", 1)
			res := tx.Model(&models.Goal{}).
				Where("id = ? AND user_id = ?", goalID, userID).
				Updates(updates)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
		}

		if patch.Steps != nil {
			if err := tx.Where("goal_id = ?", goalID).Delete(&models.GoalStep{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if err := createSteps(tx, goalID, patch.Steps); err != nil {
				return err
			}
		}

		if patch.DependencyIDs != nil {
			return replaceDependencies(ctx, tx, userID, goalID, patch.DependencyIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, userID, goalID)
}

// DeleteGoal removes a goal, its steps and every dependency edge touching it.
func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := store.Delete[models.Goal](ctx, tx, userID, goalID); err != nil {
			return translate(err, apperrors.ErrGoalNotFound)
		}
		if err := tx.Where("goal_id = ?", goalID).Delete(&models.GoalStep{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("goal_id = ? OR depends_on_id = ?", goalID, goalID).Delete(&models.GoalDependency{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddStep appends an open step to a goal.
func (s *goalService) AddStep(ctx context.Context, userID, goalID string, in StepInput) (*models.GoalStep, error) {
	if _, err := store.FindOne[models.Goal](ctx, s.db, userID, store.Filter{"id": goalID}); err != nil {
		return nil, translate(err, apperrors.ErrGoalNotFound)
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Step text is required")
	}

	step := &models.GoalStep{
		GoalID:      goalID,
		Text:        text,
		IsMilestone: in.IsMilestone,
		Deadline:    nilIfBlank(in.Deadline),
	}
	if err := s.db.WithContext(ctx).Create(step).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return step, nil
}

// DeleteStep removes one step of an owned goal.
func (s *goalService) DeleteStep(ctx context.Context, userID, goalID, stepID string) error {
	if _, err := store.FindOne[models.Goal](ctx, s.db, userID, store.Filter{"id": goalID}); err != nil {
		return translate(err, apperrors.ErrGoalNotFound)
	}

	res := s.db.WithContext(ctx).Where("id = ? AND goal_id = ?", stepID, goalID).Delete(&models.GoalStep{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStepNotFound
	}
	return nil
}

// UpdateStep patches a step. When the patch moves the step from open to done
// the goal's streak advances for today; the flip and the advance commit
// together.
func (s *goalService) UpdateStep(
	ctx context.Context,
	userID, goalID, stepID string,
	patch StepPatch,
	today time.Time,
) (*StepUpdate, error) {
	var out StepUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goal, err := store.FindOne[models.Goal](ctx, tx, userID, store.Filter{"id": goalID})
		if err != nil {
			return translate(err, apperrors.ErrGoalNotFound)
		}

		var step models.GoalStep
		if err := tx.Where("id = ? AND goal_id = ?", stepID, goalID).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrStepNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := map[string]interface{}{}
		if patch.Text != nil {
			if text := strings.TrimSpace(*patch.Text); text != "" {
				updates["text"] = text
			}
		}
		if patch.IsMilestone != nil {
			updates["is_milestone"] = *patch.IsMilestone
		}
		if patch.Deadline != nil {
			updates["deadline"] = nilIfBlank(patch.Deadline)
		}

		completed := false
		if patch.Done != nil {
			if *patch.Done {
				// Conditional on the stored value so only one writer sees the transition.
				res := tx.Model(&models.GoalStep{}).
					Where("id = ? AND done = ?", step.ID, false).
					Update("done", true)
				if res.Error != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
				}
				completed = res.RowsAffected == 1
			} else {
				updates["done"] = false
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&step).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if completed {
			advanced, changed, err := advanceStreak(ctx, tx, userID, goalID, today)
			if err != nil {
				return err
			}
			goal = advanced
			out.StreakAdvanced = changed
		}

		if err := tx.Where("id = ?", step.ID).First(&out.Step).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out.StreakCount = goal.StreakCount
		out.LastStreakDate = goal.LastStreakDate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdvanceStreak records a completion event for today on the goal's streak.
// The bool reports whether the streak changed; a second call on the same day
// is a no-op.
func (s *goalService) AdvanceStreak(ctx context.Context, userID, goalID string, today time.Time) (*models.Goal, bool, error) {
	return advanceStreak(ctx, s.db, userID, goalID, today)
}

func advanceStreak(ctx context.Context, db *gorm.DB, userID, goalID string, today time.Time) (*models.Goal, bool, error) {
	var changed bool
	goal, err := store.TransactionalUpdate[models.Goal](ctx, db, userID, goalID, func(g *models.Goal) (bool, error) {
		state, err := goalStreakState(g)
		if err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		next, ok := streak.Advance(state, today)
		changed = ok
		if !ok {
			return false, nil
		}
		last := calendar.FormatISODate(*next.LastDate)
		g.StreakCount = next.Count
		g.LastStreakDate = &last
		return true, nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, false, err
		}
		return nil, false, translate(err, apperrors.ErrGoalNotFound)
	}
	return goal, changed, nil
}

func goalStreakState(g *models.Goal) (streak.State, error) {
	state := streak.State{Count: g.StreakCount}
	if g.LastStreakDate != nil && *g.LastStreakDate != "" {
		last, err := calendar.ParseISODate(*g.LastStreakDate)
		if err != nil {
			return state, err
		}
		state.LastDate = &last
	}
	return state, nil
}

// SetDependencies replaces the set of goals this goal depends on.
func (s *goalService) SetDependencies(ctx context.Context, userID, goalID string, dependsOn []string) (*models.Goal, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := store.FindOne[models.Goal](ctx, tx, userID, store.Filter{"id": goalID}); err != nil {
			return translate(err, apperrors.ErrGoalNotFound)
		}
		return replaceDependencies(ctx, tx, userID, goalID, dependsOn)
	})
	if err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, userID, goalID)
}

// replaceDependencies validates every target and rewrites the goal's outgoing edges.
func replaceDependencies(ctx context.Context, tx *gorm.DB, userID, goalID string, dependsOn []string) error {
	seen := make(map[string]bool, len(dependsOn))
	targets := make([]string, 0, len(dependsOn))
	for _, id := range dependsOn {
		if id == goalID {
			return apperrors.ErrSelfDependentGoal
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		targets = append(targets, id)
	}

	if len(targets) > 0 {
		var found []models.Goal
		if err := tx.WithContext(ctx).Select("id", "user_id").Where("id IN ?", targets).Find(&found).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		owners := make(map[string]string, len(found))
		for _, g := range found {
			owners[g.ID] = g.UserID
		}
		for _, id := range targets {
			owner, ok := owners[id]
			if !ok {
				return apperrors.WithMessage(apperrors.ErrGoalNotFound, "Dependency goal not found: "+id)
			}
			if owner != userID {
				return apperrors.WithMessage(apperrors.ErrForbidden, "Cannot depend on a goal owned by another user")
			}
		}
	}

	if err := tx.WithContext(ctx).Where("goal_id = ?", goalID).Delete(&models.GoalDependency{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, id := range targets {
		edge := &models.GoalDependency{GoalID: goalID, DependsOnID: id, UserID: userID}
		if err := tx.WithContext(ctx).Create(edge).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// GetDependents returns the goals that depend on goalID.
func (s *goalService) GetDependents(ctx context.Context, userID, goalID string) ([]models.Goal, error) {
	if _, err := store.FindOne[models.Goal](ctx, s.db, userID, store.Filter{"id": goalID}); err != nil {
		return nil, translate(err, apperrors.ErrGoalNotFound)
	}

	edges := s.db.Model(&models.GoalDependency{}).Select("goal_id").Where("depends_on_id = ?", goalID)
	goals, err := store.FindMany[models.Goal](ctx, s.db, userID, store.Query{
		Scopes: []func(*gorm.DB) *gorm.DB{func(q *gorm.DB) *gorm.DB {
			return q.Where("id IN (?)", edges)
		}},
		Order: "created_at ASC, id ASC",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := hydrateGoals(ctx, s.db, goals); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// hydrateGoals loads steps and dependency ids for goals in two queries.
func hydrateGoals(ctx context.Context, db *gorm.DB, goals []models.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	ids := make([]string, len(goals))
	index := make(map[string]int, len(goals))
	for i := range goals {
		ids[i] = goals[i].ID
		index[goals[i].ID] = i
		goals[i].Steps = []models.GoalStep{}
		goals[i].DependencyIDs = []string{}
	}

	var steps []models.GoalStep
	if err := db.WithContext(ctx).Where("goal_id IN ?", ids).Order("created_at ASC, id ASC").Find(&steps).Error; err != nil {
		return err
	}
	for _, st := range steps {
		i := index[st.GoalID]
		goals[i].Steps = append(goals[i].Steps, st)
	}

	var edges []models.GoalDependency
	if err := db.WithContext(ctx).Where("goal_id IN ?", ids).Order("depends_on_id ASC").Find(&edges).Error; err != nil {
		return err
	}
	for _, e := range edges {
		i := index[e.GoalID]
		goals[i].DependencyIDs = append(goals[i].DependencyIDs, e.DependsOnID)
	}
	return nil
}

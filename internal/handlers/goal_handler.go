package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/services"
)

// GoalHandler handles goal, step and dependency requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
	now          func() time.Time
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService, now: time.Now}
}

// StepRequest represents one checklist step in a request payload
type StepRequest struct {
	Text        string  `json:"text" binding:"required,max=500"`
	Done        bool    `json:"done"`
	IsMilestone bool    `json:"is_milestone"`
	Deadline    *string `json:"deadline" binding:"omitempty,iso_date"`
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Type          models.GoalType   `json:"type" binding:"omitempty,goal_type"`
	Title         string            `json:"title" binding:"required,max=200"`
	Description   string            `json:"description" binding:"max=2000"`
	Deadline      *string           `json:"deadline" binding:"omitempty,iso_date"`
	Priority      models.Priority   `json:"priority" binding:"omitempty,goal_priority"`
	Status        models.GoalStatus `json:"status" binding:"omitempty,goal_status"`
	Category      string            `json:"category" binding:"max=100"`
	Color         string            `json:"color" binding:"max=50"`
	IsArchived    bool              `json:"is_archived"`
	IsPinned      bool              `json:"is_pinned"`
	Notes         string            `json:"notes"`
	Order         int               `json:"order"`
	Recurrence    string            `json:"recurrence" binding:"max=50"`
	ProjectID     *string           `json:"project_id" binding:"omitempty,uuid"`
	DependencyIDs []string          `json:"dependency_ids" binding:"omitempty,dive,uuid"`
	Steps         []StepRequest     `json:"steps" binding:"omitempty,dive"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// Omitted fields are left unchanged; "steps" and "dependency_ids", when
// present, replace the current sets.
type UpdateGoalRequest struct {
	Title         *string            `json:"title" binding:"omitempty,max=200"`
	Description   *string            `json:"description" binding:"omitempty,max=2000"`
	Deadline      *string            `json:"deadline" binding:"omitempty,iso_date"`
	Priority      *models.Priority   `json:"priority" binding:"omitempty,goal_priority"`
	Status        *models.GoalStatus `json:"status" binding:"omitempty,goal_status"`
	Category      *string            `json:"category" binding:"omitempty,max=100"`
	Color         *string            `json:"color" binding:"omitempty,max=50"`
	IsArchived    *bool              `json:"is_archived"`
	IsPinned      *bool              `json:"is_pinned"`
	Notes         *string            `json:"notes"`
	Order         *int               `json:"order"`
	Recurrence    *string            `json:"recurrence" binding:"omitempty,max=50"`
	ProjectID     *string            `json:"project_id" binding:"omitempty,uuid"`
	DependencyIDs []string           `json:"dependency_ids" binding:"omitempty,dive,uuid"`
	Steps         []StepRequest      `json:"steps" binding:"omitempty,dive"`
}

// UpdateStepRequest represents the request payload for patching a step
type UpdateStepRequest struct {
	Done        *bool   `json:"done"`
	Text        *string `json:"text" binding:"omitempty,max=500"`
	IsMilestone *bool   `json:"is_milestone"`
	Deadline    *string `json:"deadline" binding:"omitempty,iso_date"`
}

// SetDependenciesRequest represents the request payload for replacing a goal's dependencies
type SetDependenciesRequest struct {
	DependencyIDs []string `json:"dependency_ids" binding:"dive,uuid"`
}

func (r StepRequest) toInput() services.StepInput {
	return services.StepInput{
		Text:        r.Text,
		Done:        r.Done,
		IsMilestone: r.IsMilestone,
		Deadline:    r.Deadline,
	}
}

// ListGoals returns a page of goals
// @Summary     List goals
// @Description List goals with their steps and dependency ids, optionally filtered by type
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "Goal type (short or long)"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Goal] "Goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var goalType *models.GoalType
	if raw := c.Query("type"); raw != "" {
		t := models.GoalType(raw)
		if t != models.GoalTypeShort && t != models.GoalTypeLong {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal type must be short or long"))
			return
		}
		goalType = &t
	}

	result, err := h.goalService.ListGoals(c.Request.Context(), userID, goalType, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateGoal creates a goal with optional steps and dependencies
// @Summary     Create goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Dependency owned by another user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.GoalInput{
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		Priority:      req.Priority,
		Status:        req.Status,
		Category:      req.Category,
		Color:         req.Color,
		IsArchived:    req.IsArchived,
		IsPinned:      req.IsPinned,
		Notes:         req.Notes,
		Order:         req.Order,
		Recurrence:    req.Recurrence,
		ProjectID:     req.ProjectID,
		DependencyIDs: req.DependencyIDs,
	}
	for _, st := range req.Steps {
		in.Steps = append(in.Steps, st.toInput())
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"title": goal.Title, "type": goal.Type})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoal returns one goal
// @Summary     Get goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.Goal "Goal"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal applies a partial update to a goal
// @Summary     Update goal
// @Description Change any subset of a goal's fields. Archiving or marking a goal done removes it from the dashboard leaderboard.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Goal fields"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Dependency owned by another user"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [patch]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.GoalPatch{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		Priority:      req.Priority,
		Status:        req.Status,
		Category:      req.Category,
		Color:         req.Color,
		IsArchived:    req.IsArchived,
		IsPinned:      req.IsPinned,
		Notes:         req.Notes,
		Order:         req.Order,
		Recurrence:    req.Recurrence,
		ProjectID:     req.ProjectID,
		DependencyIDs: req.DependencyIDs,
	}
	if req.Steps != nil {
		patch.Steps = make([]services.StepInput, 0, len(req.Steps))
		for _, st := range req.Steps {
			patch.Steps = append(patch.Steps, st.toInput())
		}
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"status": goal.Status, "is_archived": goal.IsArchived})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal removes a goal with its steps and dependency edges
// @Summary     Delete goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// AddStep appends a step to a goal
// @Summary     Add goal step
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Goal ID"
// @Param       request body StepRequest true "Step"
// @Success     201 {object} models.GoalStep "Step created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/steps [post]
func (h *GoalHandler) AddStep(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	step, err := h.goalService.AddStep(c.Request.Context(), userID, goalID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_GOAL_STEP", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"step_id": step.ID})

	c.JSON(http.StatusCreated, gin.H{"step": step})
}

// UpdateStep patches a step and advances the goal streak when it becomes complete
// @Summary     Update goal step
// @Description Patch a step. Marking the last open step done advances the goal's streak for the reference date.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id             path  string            true  "Goal ID"
// @Param       step_id        path  string            true  "Step ID"
// @Param       local_iso_date query string            false "Reference date (YYYY-MM-DD), defaults to the current UTC date"
// @Param       request        body  UpdateStepRequest true  "Step fields"
// @Success     200 {object} services.StepUpdate "Updated step with streak"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or step not found"
// @Failure     409 {object} ErrorResponse "Concurrent update"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/steps/{step_id} [patch]
func (h *GoalHandler) UpdateStep(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stepID, err := parsePathID(c, "step_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	today, err := parseReferenceDate(c, "local_iso_date", h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.StepPatch{
		Done:        req.Done,
		Text:        req.Text,
		IsMilestone: req.IsMilestone,
		Deadline:    req.Deadline,
	}
	update, err := h.goalService.UpdateStep(c.Request.Context(), userID, goalID, stepID, patch, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if update.StreakAdvanced {
		h.auditService.Log(userID, "ADVANCE_GOAL_STREAK", "goal", goalID, c.ClientIP(),
			map[string]interface{}{"streak_count": update.StreakCount})
	}

	c.JSON(http.StatusOK, update)
}

// DeleteStep removes a step from a goal
// @Summary     Delete goal step
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string true "Goal ID"
// @Param       step_id path string true "Step ID"
// @Success     200 {object} MessageResponse "Step deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or step not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/steps/{step_id} [delete]
func (h *GoalHandler) DeleteStep(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stepID, err := parsePathID(c, "step_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteStep(c.Request.Context(), userID, goalID, stepID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL_STEP", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"step_id": stepID})

	c.JSON(http.StatusOK, gin.H{"message": "Step deleted successfully"})
}

// GetDependents lists the goals that depend on a goal
// @Summary     List dependent goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {array}  models.Goal "Dependent goals"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/dependents [get]
func (h *GoalHandler) GetDependents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetDependents(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// SetDependencies replaces the goals a goal depends on
// @Summary     Set goal dependencies
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Goal ID"
// @Param       request body SetDependenciesRequest true "Dependency ids"
// @Success     200 {object} models.Goal "Goal with its new dependencies"
// @Failure     400 {object} ErrorResponse "Invalid input or self dependency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Dependency owned by another user"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/dependencies [put]
func (h *GoalHandler) SetDependencies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetDependenciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.SetDependencies(c.Request.Context(), userID, goalID, req.DependencyIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_GOAL_DEPENDENCIES", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"dependency_ids": req.DependencyIDs})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

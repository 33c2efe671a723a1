package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// RoutineHandler handles daily routine requests.
type RoutineHandler struct {
	routineService services.RoutineServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService services.RoutineServicer, auditService services.AuditServicer) *RoutineHandler {
	return &RoutineHandler{routineService: routineService, auditService: auditService, now: time.Now}
}

// SaveRoutineRequest represents the request payload for saving a day's routine
type SaveRoutineRequest struct {
	Entries []models.RoutineEntry `json:"entries" binding:"max=96,dive"`
}

// CreateTemplateRequest represents the request payload for creating a routine template
type CreateTemplateRequest struct {
	Name    string                `json:"name" binding:"required,max=100"`
	Entries []models.RoutineEntry `json:"entries" binding:"max=96,dive"`
}

// GetStreak returns the routine completion streak
// @Summary     Routine streak
// @Description Count consecutive fully completed routine days ending at the reference date
// @Tags        routines
// @Produce     json
// @Security    BearerAuth
// @Param       local_iso_date query string false "Reference date (YYYY-MM-DD), defaults to the current UTC date"
// @Success     200 {object} streak.Summary "Current streak"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/streak [get]
func (h *RoutineHandler) GetStreak(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	today, err := parseReferenceDate(c, "local_iso_date", h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.routineService.GetStreak(c.Request.Context(), userID, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCalendar returns every saved routine day
// @Summary     Routine calendar
// @Description List saved routine days with their entry count and completion
// @Tags        routines
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.RoutineCalendarDay "Routine days"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/calendar [get]
func (h *RoutineHandler) GetCalendar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := h.routineService.GetCalendar(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetRoutine returns the routine of one day
// @Summary     Get routine
// @Description Get the routine saved for a date, empty when none was saved
// @Tags        routines
// @Produce     json
// @Security    BearerAuth
// @Param       date path string true "Date (YYYY-MM-DD)"
// @Success     200 {object} services.RoutineDay "Routine"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/{date} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	routine, err := h.routineService.GetRoutine(c.Request.Context(), userID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routine": routine})
}

// SaveRoutine replaces the routine of one day
// @Summary     Save routine
// @Description Create or replace the routine entries for a date
// @Tags        routines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date    path string             true "Date (YYYY-MM-DD)"
// @Param       request body SaveRoutineRequest true "Routine entries"
// @Success     200 {object} services.RoutineDay "Saved routine"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/{date} [put]
func (h *RoutineHandler) SaveRoutine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	routine, err := h.routineService.SaveRoutine(c.Request.Context(), userID, date, req.Entries)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVE_ROUTINE", "routine", routine.Date, c.ClientIP(),
		map[string]interface{}{"entries": len(routine.Entries)})

	c.JSON(http.StatusOK, gin.H{"routine": routine})
}

// ListTemplates returns the user's routine templates
// @Summary     List routine templates
// @Tags        routines
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.RoutineTemplate "Templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/templates [get]
func (h *RoutineHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.routineService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate stores a routine template
// @Summary     Create routine template
// @Tags        routines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateRequest true "Template"
// @Success     201 {object} models.RoutineTemplate "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/templates [post]
func (h *RoutineHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	template, err := h.routineService.CreateTemplate(c.Request.Context(), userID, req.Name, req.Entries)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ROUTINE_TEMPLATE", "routine_template", template.ID, c.ClientIP(),
		map[string]interface{}{"name": template.Name})

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// DeleteTemplate removes a routine template
// @Summary     Delete routine template
// @Tags        routines
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} MessageResponse "Template deleted"
// @Failure     400 {object} ErrorResponse "Invalid template ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /routines/templates/{id} [delete]
func (h *RoutineHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.routineService.DeleteTemplate(c.Request.Context(), userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ROUTINE_TEMPLATE", "routine_template", templateID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// SessionHandler handles focus-session requests.
type SessionHandler struct {
	sessionService services.SessionServicer
	now            func() time.Time
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService services.SessionServicer) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, now: time.Now}
}

// CreateSessionRequest represents the request payload for logging a session
type CreateSessionRequest struct {
	Type            models.SessionType `json:"type" binding:"required,session_type"`
	DurationSeconds int                `json:"duration_seconds" binding:"required,min=1,max=86400"`
}

// TodayStatsResponse is the pomodoro count of one day
type TodayStatsResponse struct {
	Date           string `json:"date"`
	TodayPomodoros int64  `json:"today_pomodoros"`
}

// CreateSession logs a finished pomodoro or break
// @Summary     Log focus session
// @Description Record a finished timer run, completed now
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSessionRequest true "Session"
// @Success     201 {object} models.FocusSession "Session created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), userID, services.SessionInput{
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
		CompletedAt:     h.now(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetTodayStats returns the pomodoro count of the reference day
// @Summary     Today's pomodoros
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Param       local_iso_date query string false "Reference date (YYYY-MM-DD), defaults to the current UTC date"
// @Success     200 {object} TodayStatsResponse "Pomodoro count"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sessions/stats/today [get]
func (h *SessionHandler) GetTodayStats(c *gin.Context) {
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

	n, err := h.sessionService.CountPomodorosOn(c.Request.Context(), userID, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TodayStatsResponse{Date: calendar.FormatISODate(today), TodayPomodoros: n})
}

// GetWeeklyStats returns pomodoro counts for the seven days ending on the reference day
// @Summary     Weekly pomodoros
// @Tags        sessions
// @Produce     json
// @Security    BearerAuth
// @Param       local_iso_date query string false "Reference date (YYYY-MM-DD), defaults to the current UTC date"
// @Success     200 {array}  services.DayCount "Seven days, oldest first"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sessions/stats/weekly [get]
func (h *SessionHandler) GetWeeklyStats(c *gin.Context) {
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

	series, err := h.sessionService.WeeklySeries(c.Request.Context(), userID, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": series})
}

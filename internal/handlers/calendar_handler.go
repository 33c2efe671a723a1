package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/services"
)

// CalendarHandler serves the merged calendar feed.
type CalendarHandler struct {
	calendarService services.CalendarServicer
	now             func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService services.CalendarServicer) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, now: time.Now}
}

// GetEvents returns goal deadlines, interviews and projected bills in a date range
// @Summary     Calendar events
// @Description Merge goal deadlines, scheduled interviews and credit card bills between two dates (inclusive). Without a range the current UTC month is used.
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Range start (YYYY-MM-DD)"
// @Param       end_date   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {array}  services.CalendarEvent "Events"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /calendar/events [get]
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rawStart, rawEnd := c.Query("start_date"), c.Query("end_date")
	var start, end time.Time
	switch {
	case rawStart == "" && rawEnd == "":
		start, end = calendar.MonthBounds(calendar.Today(h.now()))
	case rawStart == "" || rawEnd == "":
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date must be provided together"))
		return
	default:
		if start, err = parseDate(rawStart); err != nil {
			respondWithError(c, err)
			return
		}
		if end, err = parseDate(rawEnd); err != nil {
			respondWithError(c, err)
			return
		}
	}

	events, err := h.calendarService.GetEvents(c.Request.Context(), userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

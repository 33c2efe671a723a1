package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/dashboard"
)

// SnapshotBuilder builds dashboard snapshots.
type SnapshotBuilder interface {
	Snapshot(ctx context.Context, req dashboard.Request) (*dashboard.Snapshot, error)
}

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	builder SnapshotBuilder
	now     func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(builder SnapshotBuilder) *DashboardHandler {
	return &DashboardHandler{builder: builder, now: time.Now}
}

// GetSummary handles the dashboard summary request
// @Summary     Dashboard summary
// @Description Aggregate tasks, sessions, routine, gym, finance, bills, goals, interviews and projects for one local day
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       local_iso_date query string false "Reference date (YYYY-MM-DD), defaults to the current UTC date"
// @Success     200 {object} dashboard.Snapshot "Dashboard snapshot"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.now()
	today, err := parseReferenceDate(c, "local_iso_date", now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snap, err := h.builder.Snapshot(c.Request.Context(), dashboard.Request{
		OwnerID: userID,
		Today:   today,
		Now:     now,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

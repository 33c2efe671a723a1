package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/services"
)

// LendingHandler handles requests about money lent out.
type LendingHandler struct {
	lendingService services.LendingServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewLendingHandler creates a new LendingHandler.
func NewLendingHandler(lendingService services.LendingServicer, auditService services.AuditServicer) *LendingHandler {
	return &LendingHandler{lendingService: lendingService, auditService: auditService, now: time.Now}
}

// CreateLendingRequest represents the request payload for recording a loan
type CreateLendingRequest struct {
	Borrower  string  `json:"borrower" binding:"required,max=100"`
	TotalLent string  `json:"total_lent" binding:"required"`
	Returned  string  `json:"returned"`
	DueDate   *string `json:"due_date" binding:"omitempty,iso_date"`
	Notes     string  `json:"notes" binding:"max=500"`
	Date      string  `json:"date" binding:"omitempty,iso_date"`
}

// RecordReturnRequest represents the request payload for a repayment
type RecordReturnRequest struct {
	Amount string `json:"amount" binding:"required"`
	Date   string `json:"date" binding:"omitempty,iso_date"`
	Notes  string `json:"notes" binding:"max=500"`
}

// entryDate is the given history date, or today by the handler clock.
func (h *LendingHandler) entryDate(raw string) (time.Time, error) {
	if raw == "" {
		return calendar.Today(h.now()), nil
	}
	return parseDate(raw)
}

// ListLending returns every loan with its history
// @Summary     List lending
// @Tags        money
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.LendingRecord "Loans, newest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/lending [get]
func (h *LendingHandler) ListLending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	records, err := h.lendingService.ListLending(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lending": records})
}

// CreateLending records money lent to someone
// @Summary     Create lending record
// @Description Record a loan; the initial lend is logged in its history
// @Tags        money
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLendingRequest true "Loan"
// @Success     201 {object} models.LendingRecord "Loan created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/lending [post]
func (h *LendingHandler) CreateLending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.LendingInput{Borrower: req.Borrower, DueDate: req.DueDate, Notes: req.Notes}
	if in.TotalLent, err = decimal.NewFromString(req.TotalLent); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid total_lent"))
		return
	}
	if in.Returned, err = optionalAmount(req.Returned, "returned"); err != nil {
		respondWithError(c, err)
		return
	}
	if in.Date, err = h.entryDate(req.Date); err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.lendingService.CreateLending(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_LENDING", "lending_record", record.ID, c.ClientIP(),
		map[string]interface{}{"borrower": record.Borrower, "total_lent": record.TotalLent.String()})

	c.JSON(http.StatusCreated, gin.H{"lending": record})
}

// RecordReturn books a repayment against a loan
// @Summary     Record lending return
// @Description Add to the returned amount, capped at the amount lent
// @Tags        money
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Lending ID"
// @Param       request body RecordReturnRequest true "Repayment"
// @Success     200 {object} models.LendingRecord "Loan updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lending record not found"
// @Failure     409 {object} ErrorResponse "Loan already settled or modified concurrently"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/lending/{id}/return [post]
func (h *LendingHandler) RecordReturn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lendingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.ReturnInput{Notes: req.Notes}
	if in.Amount, err = decimal.NewFromString(req.Amount); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}
	if in.Date, err = h.entryDate(req.Date); err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.lendingService.RecordReturn(c.Request.Context(), userID, lendingID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_LENDING_RETURN", "lending_record", record.ID, c.ClientIP(),
		map[string]interface{}{"amount": in.Amount.String(), "returned": record.Returned.String()})

	c.JSON(http.StatusOK, gin.H{"lending": record})
}

// DeleteLending removes a loan and its history
// @Summary     Delete lending record
// @Tags        money
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Lending ID"
// @Success     200 {object} MessageResponse "Loan deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Lending record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/lending/{id} [delete]
func (h *LendingHandler) DeleteLending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lendingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.lendingService.DeleteLending(c.Request.Context(), userID, lendingID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LENDING", "lending_record", lendingID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Lending record deleted successfully"})
}

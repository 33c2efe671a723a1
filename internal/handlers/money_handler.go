package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/services"
)

// MoneyHandler handles money transaction and credit card requests.
type MoneyHandler struct {
	financeService services.FinanceServicer
	auditService   services.AuditServicer
}

// NewMoneyHandler creates a new MoneyHandler.
func NewMoneyHandler(financeService services.FinanceServicer, auditService services.AuditServicer) *MoneyHandler {
	return &MoneyHandler{financeService: financeService, auditService: auditService}
}

// MonthQuery selects a calendar month; month and year are given together or not at all.
type MonthQuery struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// CreateTransactionRequest represents the request payload for recording a transaction
type CreateTransactionRequest struct {
	Kind     models.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Category string                 `json:"category" binding:"required,max=100"`
	Amount   string                 `json:"amount" binding:"required"`
	Date     string                 `json:"date" binding:"required,iso_date"`
}

// CreateCardRequest represents the request payload for adding a credit card
type CreateCardRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Limit      string `json:"limit"`
	Used       string `json:"used"`
	TotalSpend string `json:"total_spend"`
	Color      string `json:"color" binding:"max=50"`
	DueDay     *int   `json:"due_date" binding:"omitempty,due_day"`
}

// CategoryAmountResponse is one slice of the expense breakdown
type CategoryAmountResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MoneySummaryResponse is the finance overview returned to clients
type MoneySummaryResponse struct {
	TotalIncome       string                   `json:"total_income"`
	TotalExpense      string                   `json:"total_expense"`
	CategoryBreakdown []CategoryAmountResponse `json:"category_breakdown"`
	CreditCards       []models.CreditCard      `json:"credit_cards"`
}

func (q MonthQuery) filter() (*services.MonthFilter, error) {
	switch {
	case q.Month == 0 && q.Year == 0:
		return nil, nil
	case q.Month == 0 || q.Year == 0:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month and year must be provided together")
	}
	return &services.MonthFilter{Year: q.Year, Month: time.Month(q.Month)}, nil
}

// optionalAmount parses a decimal field that defaults to zero when omitted.
func optionalAmount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+field)
	}
	return d, nil
}

func toSummaryResponse(s *services.MoneySummary) MoneySummaryResponse {
	breakdown := make([]CategoryAmountResponse, 0, len(s.CategoryBreakdown))
	for _, ca := range s.CategoryBreakdown {
		breakdown = append(breakdown, CategoryAmountResponse{Name: ca.Name, Value: ca.Value.StringFixed(2)})
	}
	cards := s.CreditCards
	if cards == nil {
		cards = []models.CreditCard{}
	}
	return MoneySummaryResponse{
		TotalIncome:       s.Totals.Income.StringFixed(2),
		TotalExpense:      s.Totals.Expense.StringFixed(2),
		CategoryBreakdown: breakdown,
		CreditCards:       cards,
	}
}

// GetSummary returns the money overview
// @Summary     Money summary
// @Description Income and expense totals with an expense breakdown by category for a month, plus credit cards
// @Tags        money
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} MoneySummaryResponse "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/summary [get]
func (h *MoneyHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	month, err := q.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.financeService.GetSummary(c.Request.Context(), userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// ListTransactions returns a page of transactions
// @Summary     List transactions
// @Description List transactions newest first, optionally restricted to one month
// @Tags        money
// @Produce     json
// @Security    BearerAuth
// @Param       month     query int false "Month (1-12)"
// @Param       year      query int false "Year"
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.MoneyTransaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/transactions [get]
func (h *MoneyHandler) ListTransactions(c *gin.Context) {
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

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	month, err := q.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.financeService.ListTransactions(c.Request.Context(), userID, month, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateTransaction records an income or expense
// @Summary     Create transaction
// @Tags        money
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction"
// @Success     201 {object} models.MoneyTransaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/transactions [post]
func (h *MoneyHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.financeService.CreateTransaction(c.Request.Context(), userID, req.Kind, req.Category, amount, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "money_transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{"kind": tx.Kind, "amount": tx.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// CreateCard adds a credit card
// @Summary     Create credit card
// @Tags        money
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Credit card"
// @Success     201 {object} models.CreditCard "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /money/cards [post]
func (h *MoneyHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.CardInput{Name: req.Name, Color: req.Color, DueDay: req.DueDay}
	if in.Limit, err = optionalAmount(req.Limit, "limit"); err != nil {
		respondWithError(c, err)
		return
	}
	if in.Used, err = optionalAmount(req.Used, "used"); err != nil {
		respondWithError(c, err)
		return
	}
	if in.TotalSpend, err = optionalAmount(req.TotalSpend, "total_spend"); err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.financeService.CreateCard(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CREDIT_CARD", "credit_card", card.ID, c.ClientIP(),
		map[string]interface{}{"name": card.Name})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

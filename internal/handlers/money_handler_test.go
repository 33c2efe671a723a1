package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lifeboard/internal/billing"
	"lifeboard/internal/calendar"
	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/services"
)

// --- mock finance service ---

type mockFinanceService struct {
	getSummaryFn        func(month *services.MonthFilter) (*services.MoneySummary, error)
	listTransactionsFn  func(month *services.MonthFilter, page pagination.PageRequest) (*pagination.PageResponse[models.MoneyTransaction], error)
	createTransactionFn func(kind models.TransactionKind, category string, amount decimal.Decimal, date time.Time) (*models.MoneyTransaction, error)
	createCardFn        func(in services.CardInput) (*models.CreditCard, error)
}

func (m *mockFinanceService) GetMonthlyTotals(_ context.Context, _ string, _ services.MonthFilter) (*services.MonthlyTotals, error) {
	return &services.MonthlyTotals{}, nil
}

func (m *mockFinanceService) GetSummary(_ context.Context, _ string, month *services.MonthFilter) (*services.MoneySummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(month)
	}
	return &services.MoneySummary{}, nil
}

func (m *mockFinanceService) ListTransactions(_ context.Context, _ string, month *services.MonthFilter, page pagination.PageRequest) (*pagination.PageResponse[models.MoneyTransaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(month, page)
	}
	resp := pagination.NewPageResponse([]models.MoneyTransaction{}, pagination.PageRequest{}, 0)
	return &resp, nil
}

func (m *mockFinanceService) CreateTransaction(_ context.Context, _ string, kind models.TransactionKind, category string, amount decimal.Decimal, date time.Time) (*models.MoneyTransaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(kind, category, amount, date)
	}
	return &models.MoneyTransaction{Kind: kind, Category: category, Amount: amount, Date: calendar.FormatISODate(date)}, nil
}

func (m *mockFinanceService) CreateCard(_ context.Context, _ string, in services.CardInput) (*models.CreditCard, error) {
	if m.createCardFn != nil {
		return m.createCardFn(in)
	}
	return &models.CreditCard{Name: in.Name, DueDay: in.DueDay}, nil
}

func (m *mockFinanceService) GetBillingRules(_ context.Context, _ string) ([]billing.Rule, error) {
	return nil, nil
}

var _ services.FinanceServicer = (*mockFinanceService)(nil)

func setupMoneyRouter(handler *MoneyHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/money/summary", handler.GetSummary)
	auth.GET("/money/transactions", handler.ListTransactions)
	auth.POST("/money/transactions", handler.CreateTransaction)
	auth.POST("/money/cards", handler.CreateCard)
	return r
}

func TestMoneyHandler_GetSummary(t *testing.T) {
	t.Run("returns fixed point amounts for a month", func(t *testing.T) {
		var got *services.MonthFilter
		svc := &mockFinanceService{
			getSummaryFn: func(month *services.MonthFilter) (*services.MoneySummary, error) {
				got = month
				return &services.MoneySummary{
					Totals: services.MonthlyTotals{
						Income:  decimal.RequireFromString("1200"),
						Expense: decimal.RequireFromString("55.5"),
					},
					CategoryBreakdown: []services.CategoryAmount{
						{Name: "Food", Value: decimal.RequireFromString("30.5")},
						{Name: "Books", Value: decimal.RequireFromString("25")},
					},
				}, nil
			},
		}
		r := setupMoneyRouter(NewMoneyHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/money/summary?month=6&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || got.Year != 2024 || got.Month != time.June {
			t.Fatalf("expected June 2024 filter, got %+v", got)
		}
		result := parseJSON(t, rec)
		if result["total_income"] != "1200.00" {
			t.Errorf("expected 1200.00, got %v", result["total_income"])
		}
		if result["total_expense"] != "55.50" {
			t.Errorf("expected 55.50, got %v", result["total_expense"])
		}
		breakdown := result["category_breakdown"].([]interface{})
		if len(breakdown) != 2 || breakdown[0].(map[string]interface{})["value"] != "30.50" {
			t.Errorf("unexpected breakdown %v", breakdown)
		}
		if cards, ok := result["credit_cards"].([]interface{}); !ok || len(cards) != 0 {
			t.Errorf("expected empty card list, got %v", result["credit_cards"])
		}
	})

	t.Run("omits the month filter when absent", func(t *testing.T) {
		called := false
		svc := &mockFinanceService{
			getSummaryFn: func(month *services.MonthFilter) (*services.MoneySummary, error) {
				called = true
				if month != nil {
					t.Errorf("expected no month filter, got %+v", month)
				}
				return &services.MoneySummary{}, nil
			},
		}
		r := setupMoneyRouter(NewMoneyHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/money/summary", "")

		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when only month is given", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/money/summary?month=6", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on month 13", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/money/summary?month=13&year=2024", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMoneyHandler_ListTransactions(t *testing.T) {
	var gotMonth *services.MonthFilter
	var gotPage pagination.PageRequest
	svc := &mockFinanceService{
		listTransactionsFn: func(month *services.MonthFilter, page pagination.PageRequest) (*pagination.PageResponse[models.MoneyTransaction], error) {
			gotMonth, gotPage = month, page
			resp := pagination.NewPageResponse([]models.MoneyTransaction{{Category: "Food"}}, pagination.PageRequest{Page: 2, PageSize: 1}, 3)
			return &resp, nil
		},
	}
	r := setupMoneyRouter(NewMoneyHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/money/transactions?month=2&year=2024&page=2&page_size=1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotMonth == nil || gotMonth.Month != time.February {
		t.Errorf("expected February filter, got %+v", gotMonth)
	}
	if gotPage.Page != 2 || gotPage.PageSize != 1 {
		t.Errorf("unexpected page %+v", gotPage)
	}
	result := parseJSON(t, rec)
	if result["total_pages"].(float64) != 3 {
		t.Errorf("expected 3 pages, got %v", result["total_pages"])
	}
}

func TestMoneyHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, audit))

		rec := doRequest(r, "POST", "/money/transactions",
			`{"kind":"expense","category":"Food (Cash)","amount":"12.50","date":"2024-06-03"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["date"] != "2024-06-03" {
			t.Errorf("expected date 2024-06-03, got %v", tx["date"])
		}
		if tx["amount"] != "12.5" {
			t.Errorf("expected amount 12.5, got %v", tx["amount"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_TRANSACTION" {
			t.Errorf("unexpected audit actions %v", audit.actions)
		}
	})

	t.Run("returns 400 on unknown kind", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/transactions",
			`{"kind":"transfer","category":"Food","amount":"1","date":"2024-06-03"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed amount", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/transactions",
			`{"kind":"income","category":"Salary","amount":"lots","date":"2024-06-03"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/transactions",
			`{"kind":"income","category":"Salary","amount":"10","date":"2024-6-3"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMoneyHandler_CreateCard(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CardInput
		svc := &mockFinanceService{
			createCardFn: func(in services.CardInput) (*models.CreditCard, error) {
				got = in
				return &models.CreditCard{Name: in.Name, DueDay: in.DueDay, Used: in.Used}, nil
			},
		}
		r := setupMoneyRouter(NewMoneyHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/cards", `{"name":"Visa","limit":"5000","used":"100","due_date":15}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.DueDay == nil || *got.DueDay != 15 {
			t.Errorf("expected due day 15, got %v", got.DueDay)
		}
		if !got.Used.Equal(decimal.NewFromInt(100)) || !got.TotalSpend.IsZero() {
			t.Errorf("unexpected amounts %+v", got)
		}
		card := parseJSON(t, rec)["card"].(map[string]interface{})
		if card["due_date"].(float64) != 15 {
			t.Errorf("expected due_date 15, got %v", card["due_date"])
		}
	})

	t.Run("returns 400 on due day 32", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/cards", `{"name":"Visa","due_date":32}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed limit", func(t *testing.T) {
		r := setupMoneyRouter(NewMoneyHandler(&mockFinanceService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/money/cards", `{"name":"Visa","limit":"5k"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

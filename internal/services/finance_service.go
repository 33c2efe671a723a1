package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lifeboard/internal/billing"
	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/store"
)

// paymentSuffix matches the payment-method suffix of a category, e.g. " (Cash)".
var paymentSuffix = regexp.MustCompile(`\s\([^)]+\)$`)

// financeService handles money transactions, credit cards and their billing rules.
type financeService struct {
	db *gorm.DB
}

// NewFinanceService creates a new FinanceServicer.
func NewFinanceService(db *gorm.DB) FinanceServicer {
	return &financeService{db: db}
}

func inMonth(m MonthFilter) func(*gorm.DB) *gorm.DB {
	prefix := calendar.MonthPrefix(calendar.Date(m.Year, m.Month, 1))
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("date LIKE ?", prefix+"-%")
	}
}

func (s *financeService) monthTransactions(ctx context.Context, userID string, m MonthFilter) ([]models.MoneyTransaction, error) {
	return store.FindMany[models.MoneyTransaction](ctx, s.db, userID, store.Query{
		Scopes: []func(*gorm.DB) *gorm.DB{inMonth(m)},
	})
}

func sumByKind(txs []models.MoneyTransaction) MonthlyTotals {
	totals := MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		switch t.Kind {
		case models.TransactionKindIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case models.TransactionKindExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals
}

// GetMonthlyTotals sums income and expense for one calendar month.
func (s *financeService) GetMonthlyTotals(ctx context.Context, userID string, month MonthFilter) (*MonthlyTotals, error) {
	txs, err := s.monthTransactions(ctx, userID, month)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totals := sumByKind(txs)
	return &totals, nil
}

// GetSummary returns the user's cards and, when month is set, that month's
// totals and expense breakdown by category.
func (s *financeService) GetSummary(ctx context.Context, userID string, month *MonthFilter) (*MoneySummary, error) {
	cards, err := store.FindMany[models.CreditCard](ctx, s.db, userID, store.Query{Order: "created_at DESC, id DESC"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MoneySummary{
		Totals:            MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero},
		CategoryBreakdown: []CategoryAmount{},
		CreditCards:       cards,
	}
	if month == nil {
		return summary, nil
	}

	txs, err := s.monthTransactions(ctx, userID, *month)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary.Totals = sumByKind(txs)
	summary.CategoryBreakdown = expenseBreakdown(txs)
	return summary, nil
}

// expenseBreakdown groups expenses by category with the payment-method suffix
// folded away, largest first.
func expenseBreakdown(txs []models.MoneyTransaction) []CategoryAmount {
	byName := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Kind != models.TransactionKindExpense {
			continue
		}
		name := paymentSuffix.ReplaceAllString(t.Category, "")
		byName[name] = byName[name].Add(t.Amount)
	}

	out := make([]CategoryAmount, 0, len(byName))
	for name, v := range byName {
		out = append(out, CategoryAmount{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ListTransactions returns a page of transactions, newest date first,
// optionally limited to one month.
func (s *financeService) ListTransactions(ctx context.Context, userID string, month *MonthFilter, page pagination.PageRequest) (*pagination.PageResponse[models.MoneyTransaction], error) {
	q := store.Query{Order: "date DESC, created_at DESC"}
	if month != nil {
		q.Scopes = []func(*gorm.DB) *gorm.DB{inMonth(*month)}
	}
	resp, err := store.Page[models.MoneyTransaction](ctx, s.db, userID, q, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return resp, nil
}

// CreateTransaction records an income or expense entry.
func (s *financeService) CreateTransaction(
	ctx context.Context,
	userID string,
	kind models.TransactionKind,
	category string,
	amount decimal.Decimal,
	date time.Time,
) (*models.MoneyTransaction, error) {
	if kind != models.TransactionKindIncome && kind != models.TransactionKindExpense {
		return nil, apperrors.ErrInvalidTransactionKind
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	tx := &models.MoneyTransaction{
		UserID:   userID,
		Kind:     kind,
		Category: category,
		Amount:   amount,
		Date:     calendar.FormatISODate(date),
	}
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tx, nil
}

// CreateCard adds a credit card.
func (s *financeService) CreateCard(ctx context.Context, userID string, in CardInput) (*models.CreditCard, error) {
	if in.DueDay != nil && (*in.DueDay < 1 || *in.DueDay > 31) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be a day of month between 1 and 31")
	}
	if in.Used.IsNegative() || in.Limit.IsNegative() || in.TotalSpend.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amounts must not be negative")
	}
	color := in.Color
	if color == "" {
		color = "from-slate-500 to-slate-700"
	}

	card := &models.CreditCard{
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		Limit:      in.Limit,
		Used:       in.Used,
		TotalSpend: in.TotalSpend,
		Color:      color,
		DueDay:     in.DueDay,
	}
	if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// GetBillingRules returns one billing rule per credit card, in creation order.
func (s *financeService) GetBillingRules(ctx context.Context, userID string) ([]billing.Rule, error) {
	rules, err := loadBillingRules(ctx, s.db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rules, nil
}

func loadBillingRules(ctx context.Context, db *gorm.DB, userID string) ([]billing.Rule, error) {
	cards, err := store.FindMany[models.CreditCard](ctx, db, userID, store.Query{Order: "created_at ASC, id ASC"})
	if err != nil {
		return nil, err
	}
	rules := make([]billing.Rule, 0, len(cards))
	for _, c := range cards {
		rules = append(rules, billing.Rule{
			SourceID:    c.ID,
			Name:        c.Name,
			DueDay:      c.DueDay,
			Outstanding: c.Used,
		})
	}
	return rules, nil
}

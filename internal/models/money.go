package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind is the direction of a money transaction.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// MoneyTransaction is a single income or expense entry.
type MoneyTransaction struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind     TransactionKind `gorm:"not null" json:"kind"`
	Category string          `gorm:"not null" json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	// Date is YYYY-MM-DD so month filters are a prefix match.
	Date string `gorm:"size:10;not null;index" json:"date"`
}

// CreditCard carries the billing rule used by bill projection: Used is the
// outstanding balance and DueDay the day of month the statement is due.
type CreditCard struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string          `gorm:"not null" json:"name"`
	Limit      decimal.Decimal `gorm:"column:credit_limit;type:numeric(14,2);not null" json:"limit"`
	Used       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"used"`
	TotalSpend decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_spend"`
	Color      string          `json:"color"`
	DueDay     *int            `gorm:"column:due_date" json:"due_date"`
}

// LendingEntryKind is the direction of one movement on a loan.
type LendingEntryKind string

const (
	LendingEntryLend   LendingEntryKind = "lend"
	LendingEntryReturn LendingEntryKind = "return"
)

// LendingRecord is money lent to someone. Returned never exceeds TotalLent.
type LendingRecord struct {
	Base
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Borrower  string          `gorm:"not null" json:"borrower"`
	TotalLent decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_lent"`
	Returned  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"returned"`
	DueDate   *string         `gorm:"size:10" json:"due_date"`
	Notes     string          `json:"notes"`
	// Version guards partial returns with compare-and-swap.
	Version int `gorm:"not null;default:0" json:"-"`

	Outstanding decimal.Decimal `gorm:"-" json:"outstanding"`
	History     []LendingEntry  `gorm:"foreignKey:LendingID" json:"history"`
}

// AfterFind derives the outstanding balance.
func (r *LendingRecord) AfterFind(_ *gorm.DB) error {
	r.Outstanding = r.TotalLent.Sub(r.Returned)
	return nil
}

// GetVersion implements store.Versioned.
func (r *LendingRecord) GetVersion() int { return r.Version }

// SetVersion implements store.Versioned.
func (r *LendingRecord) SetVersion(v int) { r.Version = v }

// LendingEntry is one lend or return movement in a loan's history.
type LendingEntry struct {
	Base
	LendingID string           `gorm:"type:uuid;not null;index" json:"lending_id"`
	Kind      LendingEntryKind `gorm:"not null" json:"kind"`
	Amount    decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date      string           `gorm:"size:10;not null" json:"date"`
	Notes     string           `json:"notes"`
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/store"
)

// lendingService tracks money lent out and what has come back.
type lendingService struct {
	db *gorm.DB
}

// NewLendingService creates a new LendingServicer.
func NewLendingService(db *gorm.DB) LendingServicer {
	return &lendingService{db: db}
}

func (s *lendingService) withHistory(ctx context.Context, records []models.LendingRecord) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	var entries []models.LendingEntry
	if err := s.db.WithContext(ctx).
		Where("lending_id IN ?", ids).
		Order("date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return err
	}
	byRecord := make(map[string][]models.LendingEntry, len(records))
	for _, e := range entries {
		byRecord[e.LendingID] = append(byRecord[e.LendingID], e)
	}
	for i := range records {
		records[i].History = byRecord[records[i].ID]
		if records[i].History == nil {
			records[i].History = []models.LendingEntry{}
		}
	}
	return nil
}

// ListLending returns the user's loans newest first, each with its history.
func (s *lendingService) ListLending(ctx context.Context, userID string) ([]models.LendingRecord, error) {
	records, err := store.FindMany[models.LendingRecord](ctx, s.db, userID, store.Query{Order: "created_at DESC, id DESC"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.withHistory(ctx, records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// GetLending returns one loan with its history.
func (s *lendingService) GetLending(ctx context.Context, userID, lendingID string) (*models.LendingRecord, error) {
	record, err := store.FindOne[models.LendingRecord](ctx, s.db, userID, store.Filter{"id": lendingID})
	if err != nil {
		return nil, translate(err, apperrors.ErrLendingNotFound)
	}
	records := []models.LendingRecord{*record}
	if err := s.withHistory(ctx, records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &records[0], nil
}

// CreateLending records a new loan and logs the initial lend entry. An
// amount already returned up front is logged as a return on the same day.
func (s *lendingService) CreateLending(ctx context.Context, userID string, in LendingInput) (*models.LendingRecord, error) {
	borrower := strings.TrimSpace(in.Borrower)
	switch {
	case borrower == "":
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Borrower is required")
	case !in.TotalLent.IsPositive():
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total_lent must be greater than zero")
	case in.Returned.IsNegative() || in.Returned.GreaterThan(in.TotalLent):
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "returned must be between zero and total_lent")
	}

	date := calendar.FormatISODate(in.Date)
	record := &models.LendingRecord{
		UserID:    userID,
		Borrower:  borrower,
		TotalLent: in.TotalLent,
		Returned:  in.Returned,
		DueDate:   nilIfBlank(in.DueDate),
		Notes:     in.Notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History").Create(record).Error; err != nil {
			return err
		}
		entries := []models.LendingEntry{{
			LendingID: record.ID,
			Kind:      models.LendingEntryLend,
			Amount:    in.TotalLent,
			Date:      date,
			Notes:     "Initial lending",
		}}
		if in.Returned.IsPositive() {
			entries = append(entries, models.LendingEntry{
				LendingID: record.ID,
				Kind:      models.LendingEntryReturn,
				Amount:    in.Returned,
				Date:      date,
			})
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetLending(ctx, userID, record.ID)
}

// RecordReturn books a repayment. Returned is capped at the amount lent and
// the history entry logs what was actually applied.
func (s *lendingService) RecordReturn(ctx context.Context, userID, lendingID string, in ReturnInput) (*models.LendingRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var applied decimal.Decimal
		_, err := store.TransactionalUpdate[models.LendingRecord](ctx, tx, userID, lendingID, func(r *models.LendingRecord) (bool, error) {
			applied = in.Amount
			outstanding := r.TotalLent.Sub(r.Returned)
			if !outstanding.IsPositive() {
				return false, apperrors.ErrLoanSettled
			}
			if applied.GreaterThan(outstanding) {
				applied = outstanding
			}
			r.Returned = r.Returned.Add(applied)
			return true, nil
		})
		if err != nil {
			return err
		}
		return tx.Create(&models.LendingEntry{
			LendingID: lendingID,
			Kind:      models.LendingEntryReturn,
			Amount:    applied,
			Date:      calendar.FormatISODate(in.Date),
			Notes:     in.Notes,
		}).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, translate(err, apperrors.ErrLendingNotFound)
	}
	return s.GetLending(ctx, userID, lendingID)
}

// DeleteLending removes a loan and its history.
func (s *lendingService) DeleteLending(ctx context.Context, userID, lendingID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := store.Delete[models.LendingRecord](ctx, tx, userID, lendingID); err != nil {
			return translate(err, apperrors.ErrLendingNotFound)
		}
		if err := tx.Where("lending_id = ?", lendingID).Delete(&models.LendingEntry{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

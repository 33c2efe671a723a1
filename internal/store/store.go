// Package store is the owner-scoped persistence layer shared by the
// services. Every helper filters on the user_id column, so a record owned by
// someone else is indistinguishable from a missing one.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifeboard/internal/pagination"
)

// ownerColumn is the column every owned table carries.
const ownerColumn = "user_id"

// maxCASAttempts bounds how often TransactionalUpdate re-reads a row whose
// version moved underneath it before giving up with ErrConflict.
const maxCASAttempts = 3

var (
	// ErrNotFound is returned when no row matches the owner and filter.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a compare-and-swap update keeps losing.
	ErrConflict = errors.New("store: concurrent update conflict")

	errVersionMoved = errors.New("store: version moved")
)

// Filter is a set of column = value conditions joined with AND.
type Filter map[string]interface{}

// Query describes a FindMany call.
type Query struct {
	Where Filter
	// Scopes add conditions a Filter cannot express (ranges, prefixes).
	Scopes []func(*gorm.DB) *gorm.DB
	Order  string
	Limit  int
}

// Versioned rows carry an optimistic-concurrency counter.
type Versioned interface {
	GetVersion() int
	SetVersion(int)
}

func owned(ctx context.Context, db *gorm.DB, ownerID string) *gorm.DB {
	return db.WithContext(ctx).Where(ownerColumn+" = ?", ownerID)
}

func apply(q *gorm.DB, where Filter, scopes []func(*gorm.DB) *gorm.DB) *gorm.DB {
	if len(where) > 0 {
		q = q.Where(map[string]interface{}(where))
	}
	if len(scopes) > 0 {
		q = q.Scopes(scopes...)
	}
	return q
}

// FindOne returns the single owned row matching where, or ErrNotFound.
func FindOne[T any](ctx context.Context, db *gorm.DB, ownerID string, where Filter) (*T, error) {
	var row T
	err := apply(owned(ctx, db, ownerID), where, nil).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &row, nil
}

// FindMany returns every owned row matching q, never nil.
func FindMany[T any](ctx context.Context, db *gorm.DB, ownerID string, q Query) ([]T, error) {
	tx := apply(owned(ctx, db, ownerID).Model(new(T)), q.Where, q.Scopes)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	rows := []T{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find many: %w", err)
	}
	return rows, nil
}

// Count returns the number of owned rows matching q.
func Count[T any](ctx context.Context, db *gorm.DB, ownerID string, q Query) (int64, error) {
	var n int64
	tx := apply(owned(ctx, db, ownerID).Model(new(T)), q.Where, q.Scopes)
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Page returns one page of owned rows matching q.
func Page[T any](ctx context.Context, db *gorm.DB, ownerID string, q Query, page pagination.PageRequest) (*pagination.PageResponse[T], error) {
	page = page.Normalized()

	total, err := Count[T](ctx, db, ownerID, q)
	if err != nil {
		return nil, err
	}

	tx := apply(owned(ctx, db, ownerID).Model(new(T)), q.Where, q.Scopes)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	var rows []T
	if err := tx.Scopes(page.Scope()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}

	resp := pagination.NewPageResponse(rows, page, total)
	return &resp, nil
}

// Upsert inserts value or, when a row with the same conflict columns
// already exists, overwrites updateColumns on it. The stored row is read
// back by its natural key so callers see the surviving primary key.
func Upsert[T any](ctx context.Context, db *gorm.DB, ownerID string, value *T, conflict Filter, updateColumns ...string) (*T, error) {
	cols := make([]clause.Column, 0, len(conflict))
	for name := range conflict {
		cols = append(cols, clause.Column{Name: name})
	}
	updateColumns = append(updateColumns, "updated_at")

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   cols,
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).Create(value).Error
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return FindOne[T](ctx, db, ownerID, conflict)
}

// Delete soft-deletes the owned row with the given id.
func Delete[T any](ctx context.Context, db *gorm.DB, ownerID, id string) error {
	res := owned(ctx, db, ownerID).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionalUpdate reads the owned row id, lets mutate change it, and
// writes it back only if its version is still the one that was read. When
// another writer got there first the row is re-read and mutate runs again
// against the fresh copy, so decisions inside mutate always see a
// consistent snapshot. mutate reports whether it changed anything; an
// unchanged row is returned without a write.
//
// Retrying is bounded: after maxCASAttempts lost races the call gives up
// with ErrConflict instead of looping, which callers surface as HTTP 409.
// mutate may therefore run up to maxCASAttempts times; anything it records
// outside the row must be overwritten on each run, not accumulated.
func TransactionalUpdate[T any, PT interface {
	*T
	Versioned
}](ctx context.Context, db *gorm.DB, ownerID, id string, mutate func(PT) (bool, error)) (PT, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		var result PT
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			row := PT(new(T))
			if err := tx.Where("id = ? AND "+ownerColumn+" = ?", id, ownerID).First(row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			changed, err := mutate(row)
			if err != nil {
				return err
			}
			if !changed {
				result = row
				return nil
			}

			read := row.GetVersion()
			row.SetVersion(read + 1)
			res := tx.Model(row).
				Omit(clause.Associations).
				Where("version = ?", read).
				Select("*").
				Updates(row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionMoved
			}
			result = row
			return nil
		})
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, errVersionMoved):
			continue
		case errors.Is(err, ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}
	return nil, ErrConflict
}

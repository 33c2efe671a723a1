// Package pagination windows the long owner-scoped lists (goals, money
// transactions) into numbered pages.
package pagination

import "gorm.io/gorm"

const (
	// DefaultPageSize fits a month of transactions on one screen.
	DefaultPageSize = 20
	// MaxPageSize bounds a page whichever layer built the request.
	MaxPageSize = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalized returns a copy with defaults applied and the size clamped to
// MaxPageSize. Services receive requests from callers that skip binding.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Scope applies OFFSET and LIMIT for a normalized request.
func (p PageRequest) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
	}
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// NewPageResponse builds the envelope for one page of rows out of total.
// Data is never null so clients can iterate without a check.
func NewPageResponse[T any](data []T, req PageRequest, total int64) PageResponse[T] {
	req = req.Normalized()
	if data == nil {
		data = []T{}
	}
	size := int64(req.PageSize)
	pages := int((total + size - 1) / size)
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    req.Page < pages,
	}
}

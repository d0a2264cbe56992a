package query

import (
	"math"

	"catalog/internal/domain"
)

const (
	DefaultPage = 0
	DefaultSize = 10
	MinSize     = 1
	MaxSize     = 100
)

// PageBounds is a validated, 0-indexed page window.
type PageBounds struct {
	Page int
	Size int
}

// Offset is the number of rows to skip.
func (b PageBounds) Offset() int { return b.Page * b.Size }

// ValidateBounds rejects out-of-range values instead of clamping them.
func ValidateBounds(page, size int) (PageBounds, error) {
	if page < 0 {
		return PageBounds{}, domain.ValidationError{Field: "page", Msg: "page must be >= 0"}
	}
	if size < MinSize || size > MaxSize {
		return PageBounds{}, domain.ValidationError{Field: "size", Msg: "size must be between 1 and 100"}
	}
	// offset plus a full slice window must stay representable
	if page > math.MaxInt/size-2 {
		return PageBounds{}, domain.ValidationError{Field: "page", Msg: "page is too large for the requested size"}
	}
	return PageBounds{Page: page, Size: size}, nil
}

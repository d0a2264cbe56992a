package query

// PageResult is a counted page.
type PageResult[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// SliceResult is an uncounted page. It deliberately has no total field.
type SliceResult[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	HasNext bool `json:"hasNext"`
}

// NewPageResult derives TotalPages from total and the page size.
func NewPageResult[T any](items []T, b PageBounds, total int64) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if b.Size > 0 {
		pages = int((total + int64(b.Size) - 1) / int64(b.Size))
	}
	return PageResult[T]{
		Items:         items,
		Page:          b.Page,
		Size:          b.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// NewSliceResult expects up to Size+1 rows (see SliceLimit) and trims the probe row.
func NewSliceResult[T any](rows []T, b PageBounds) SliceResult[T] {
	hasNext := len(rows) > b.Size
	if hasNext {
		rows = rows[:b.Size]
	}
	if rows == nil {
		rows = []T{}
	}
	return SliceResult[T]{Items: rows, Page: b.Page, Size: b.Size, HasNext: hasNext}
}

// SliceLimit is the row count to fetch for a slice: one more than the page size.
func (b PageBounds) SliceLimit() int { return b.Size + 1 }

// MapItems converts every element with fn, preserving order.
func MapItems[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

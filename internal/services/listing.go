package services

import (
	"context"

	"catalog/internal/domain"
	"catalog/internal/query"
)

// ListSource is the data-access side of a listing.
type ListSource[R any] interface {
	FindPage(ctx context.Context, q query.ListingQuery) ([]R, int64, error)
	// FindSlice returns at most q.Bounds().SliceLimit() rows and runs no count.
	FindSlice(ctx context.Context, q query.ListingQuery) ([]R, error)
}

type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// Lister runs validated listing queries against a source and maps rows to response
// records. Owners and Categories are only consulted when the query is scoped by owner or
// filtered by category.
type Lister[R, T any] struct {
	Source     ListSource[R]
	Owners     ExistenceChecker
	Categories ExistenceChecker
	Map        func(R) T
}

// Page returns a counted page.
func (l Lister[R, T]) Page(ctx context.Context, q query.ListingQuery) (query.PageResult[T], error) {
	if err := l.checkReferences(ctx, q); err != nil {
		return query.PageResult[T]{}, err
	}
	rows, total, err := l.Source.FindPage(ctx, q)
	if err != nil {
		return query.PageResult[T]{}, err
	}
	return query.NewPageResult(query.MapItems(rows, l.Map), q.Bounds(), total), nil
}

// Slice returns an uncounted page. The source is asked for one extra row to learn whether
// a next page exists.
func (l Lister[R, T]) Slice(ctx context.Context, q query.ListingQuery) (query.SliceResult[T], error) {
	if err := l.checkReferences(ctx, q); err != nil {
		return query.SliceResult[T]{}, err
	}
	rows, err := l.Source.FindSlice(ctx, q)
	if err != nil {
		return query.SliceResult[T]{}, err
	}
	b := q.Bounds()
	if len(rows) > b.SliceLimit() {
		rows = rows[:b.SliceLimit()]
	}
	window := query.NewSliceResult(rows, b)
	return query.SliceResult[T]{
		Items:   query.MapItems(window.Items, l.Map),
		Page:    window.Page,
		Size:    window.Size,
		HasNext: window.HasNext,
	}, nil
}

func (l Lister[R, T]) checkReferences(ctx context.Context, q query.ListingQuery) error {
	if owner, ok := q.OwnerID(); ok {
		if err := requireExists(ctx, l.Owners, "user", owner); err != nil {
			return err
		}
	}
	if cat, ok := q.Filter().CategoryID(); ok {
		if err := requireExists(ctx, l.Categories, "category", cat); err != nil {
			return err
		}
	}
	return nil
}

func requireExists(ctx context.Context, checker ExistenceChecker, resource string, id int64) error {
	if checker == nil {
		return domain.InternalError{Msg: resource + " lookup not configured"}
	}
	ok, err := checker.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

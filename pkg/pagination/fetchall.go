package pagination

import (
	"context"
	"time"
)

// DefaultLimit is the page size FetchAll uses when none is given.
const DefaultLimit = 100

// ListFunc fetches one page of a source that answers with bare lists.
type ListFunc[T any] func(ctx context.Context, page, limit int) ([]T, error)

// TotalFunc reports the size of a result set.
type TotalFunc func(ctx context.Context) (int, error)

// Total returns a TotalFunc for a size known up front.
func Total(n int) TotalFunc {
	return func(context.Context) (int, error) {
		return n, nil
	}
}

// FetchAll materializes a source whose page size the caller chooses.
//
// With a total, pages 1..TotalPages(total, limit) are all requested at
// once. Without one (total == nil), pages are requested one at a time until
// a page holds fewer than limit items. limit <= 0 means DefaultLimit.
func FetchAll[T any](ctx context.Context, fn ListFunc[T], limit int, total TotalFunc, opts ...Option) ([]T, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	cfg := buildConfig(opts)
	cfg.Limit = limit

	e := New[T](func(ctx context.Context, req Request) (Page[T], error) {
		items, err := fn(ctx, req.Page, req.Limit)
		if err != nil {
			return nil, err
		}
		return Plain[T](items), nil
	}, cfg)

	if total == nil {
		return e.Serial(ctx)
	}

	start := time.Now()

	n, err := total(ctx)
	if err != nil {
		return e.finish(ShapeCounted, start, nil, err)
	}

	items, err := e.fetchRange(ctx, nil, 1, TotalPages(n, limit))
	return e.finish(ShapeCounted, start, items, err)
}

// PageIndex converts a 1-based page number for APIs that count pages from 0
// when zeroIndex is set.
func PageIndex(page int, zeroIndex bool) int {
	if zeroIndex {
		return page - 1
	}
	return page
}

// Offset converts a 1-based page number and page size into an item offset,
// counted from 0 when zeroIndex is set and from 1 otherwise.
func Offset(page, limit int, zeroIndex bool) int {
	offset := (page - 1) * limit
	if !zeroIndex {
		offset++
	}
	return offset
}

// TotalPages returns how many pages of limit items hold total items.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

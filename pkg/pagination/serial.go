package pagination

import (
	"context"

	"github.com/Sternrassler/unpaginated/pkg/trampoline"
)

// serialState is the iteration state of the serial strategy.
type serialState[T any] struct {
	items []T
	page  int
	// limit is the size below which a page is the last one.
	limit int
}

// serialFrom continues a plain-list source after its first page.
func (e *Engine[T]) serialFrom(ctx context.Context, first Plain[T]) ([]T, error) {
	items := clone(first)
	if len(first) == 0 {
		return items, nil
	}
	if e.config.Limit > 0 && len(first) < e.config.Limit {
		return items, nil
	}

	limit := e.config.Limit
	if limit == 0 {
		limit = len(first)
	}

	return trampoline.RunObserved[serialState[T], []T](ctx, e.serialStep, serialState[T]{
		items: items,
		page:  2,
		limit: limit,
	}, e.progress("serial"))
}

// serialStep fetches one page and stops on an empty or short one. A page of
// exactly limit items always costs one more call.
func (e *Engine[T]) serialStep(ctx context.Context, s serialState[T]) (trampoline.Signal[serialState[T], []T], error) {
	p, err := e.call(ctx, "serial", Request{Page: s.page, Limit: e.config.Limit})
	if err != nil {
		return trampoline.Signal[serialState[T], []T]{}, err
	}

	batch := batchOf(p)
	items := append(s.items, batch...)

	if len(batch) == 0 || len(batch) < s.limit {
		return trampoline.Done[serialState[T]](items), nil
	}

	limit := e.config.Limit
	if limit == 0 {
		limit = len(batch)
	}

	return trampoline.Continue[serialState[T], []T](serialState[T]{
		items: items,
		page:  s.page + 1,
		limit: limit,
	}), nil
}

package pagination

import (
	"context"

	"github.com/Sternrassler/unpaginated/pkg/trampoline"
)

type cursorState[T any] struct {
	items  []T
	cursor Cursor
	page   int
}

// followFrom continues a cursored source after its first page.
func (e *Engine[T]) followFrom(ctx context.Context, first Cursored[T]) ([]T, error) {
	items := clone(first.Data)
	if len(first.Data) == 0 || !first.Cursor.Actionable() {
		return items, nil
	}

	return trampoline.RunObserved[cursorState[T], []T](ctx, e.cursorStep, cursorState[T]{
		items:  items,
		cursor: first.Cursor,
		page:   2,
	}, e.progress("cursor"))
}

// cursorStep passes the last token back to the source. An empty page or a
// token that is not Actionable ends the chain; that last page still counts.
func (e *Engine[T]) cursorStep(ctx context.Context, s cursorState[T]) (trampoline.Signal[cursorState[T], []T], error) {
	p, err := e.call(ctx, "cursor", Request{Page: s.page, Limit: e.config.Limit, Cursor: s.cursor})
	if err != nil {
		return trampoline.Signal[cursorState[T], []T]{}, err
	}

	batch := batchOf(p)
	next := cursorOf(p)
	items := append(s.items, batch...)

	if len(batch) == 0 || !next.Actionable() {
		return trampoline.Done[cursorState[T]](items), nil
	}

	return trampoline.Continue[cursorState[T], []T](cursorState[T]{
		items:  items,
		cursor: next,
		page:   s.page + 1,
	}), nil
}

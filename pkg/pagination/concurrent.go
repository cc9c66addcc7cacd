package pagination

import (
	"context"
	"sync"

	"github.com/Sternrassler/unpaginated/pkg/trampoline"
)

// pendingBatch is a page whose request may still be in flight.
// items is only read after the owning fanout has been waited on.
type pendingBatch[T any] struct {
	page  int
	items []T
}

// fanout tracks the in-flight requests of one concurrent run.
type fanout struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	once   sync.Once
	failed chan struct{}
	err    error
}

func newFanout(ctx context.Context, maxConcurrency int) *fanout {
	ctx, cancel := context.WithCancel(ctx)
	f := &fanout{
		ctx:    ctx,
		cancel: cancel,
		failed: make(chan struct{}),
	}
	if maxConcurrency > 0 {
		f.sem = make(chan struct{}, maxConcurrency)
	}
	return f
}

// fail records the first error and cancels the requests still in flight.
func (f *fanout) fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.failed)
		f.cancel()
	})
}

func (f *fanout) firstError() error {
	select {
	case <-f.failed:
		return f.err
	default:
		return nil
	}
}

// acquire blocks until a request slot is free.
func (f *fanout) acquire() error {
	if f.sem == nil {
		return nil
	}
	select {
	case f.sem <- struct{}{}:
		return nil
	case <-f.ctx.Done():
		if err := f.firstError(); err != nil {
			return err
		}
		return f.ctx.Err()
	}
}

func (f *fanout) release() {
	if f.sem != nil {
		<-f.sem
	}
}

// wait joins every request and returns the first failure, if any.
func (f *fanout) wait() error {
	f.wg.Wait()
	return f.firstError()
}

// stop cancels and joins whatever is still running.
func (f *fanout) stop() {
	f.cancel()
	f.wg.Wait()
}

type concurrentState[T any] struct {
	batches []*pendingBatch[T]
	page    int
	pages   int
	fan     *fanout
}

// concurrentFrom continues a counted source after its first page. The page
// size is the size of the first page unless a limit is configured.
func (e *Engine[T]) concurrentFrom(ctx context.Context, first Counted[T]) ([]T, error) {
	items := clone(first.Data)
	if len(first.Data) == 0 || len(first.Data) >= first.Total {
		return items, nil
	}

	pageSize := e.config.Limit
	if pageSize == 0 {
		pageSize = len(first.Data)
	}
	pages := TotalPages(first.Total, pageSize)

	e.logger.Debug().
		Int("total", first.Total).
		Int("page_size", pageSize).
		Int("pages", pages).
		Msg("Starting concurrent page fetch")

	return e.fetchRange(ctx, items, 2, pages)
}

// fetchRange requests pages from..to concurrently and returns seed followed
// by their items in page order. Nothing is trimmed or padded: a page that
// comes back short or empty is taken as is.
func (e *Engine[T]) fetchRange(ctx context.Context, seed []T, from, to int) ([]T, error) {
	fan := newFanout(ctx, e.config.MaxConcurrency)
	defer fan.stop()

	var batches []*pendingBatch[T]
	if seed != nil {
		batches = append(batches, &pendingBatch[T]{page: from - 1, items: seed})
	}

	return trampoline.RunObserved[concurrentState[T], []T](ctx, e.concurrentStep, concurrentState[T]{
		batches: batches,
		page:    from,
		pages:   to,
		fan:     fan,
	}, e.progress("concurrent"))
}

// concurrentStep launches one page per iteration; once every page is in
// flight it waits for all of them and concatenates by page index.
func (e *Engine[T]) concurrentStep(ctx context.Context, s concurrentState[T]) (trampoline.Signal[concurrentState[T], []T], error) {
	var none trampoline.Signal[concurrentState[T], []T]

	if err := s.fan.firstError(); err != nil {
		return none, err
	}

	if s.page > s.pages {
		if err := s.fan.wait(); err != nil {
			return none, err
		}
		return trampoline.Done[concurrentState[T]](concat(s.batches)), nil
	}

	pending, err := e.launch(s.fan, s.page)
	if err != nil {
		return none, err
	}

	return trampoline.Continue[concurrentState[T], []T](concurrentState[T]{
		batches: append(s.batches, pending),
		page:    s.page + 1,
		pages:   s.pages,
		fan:     s.fan,
	}), nil
}

// launch starts the request for one page.
func (e *Engine[T]) launch(fan *fanout, page int) (*pendingBatch[T], error) {
	if err := fan.acquire(); err != nil {
		return nil, err
	}
	if err := fan.firstError(); err != nil {
		fan.release()
		return nil, err
	}

	pending := &pendingBatch[T]{page: page}

	fan.wg.Add(1)
	go func() {
		defer fan.wg.Done()
		defer fan.release()

		// A run that already failed or was cancelled makes no more calls.
		if err := fan.ctx.Err(); err != nil {
			fan.fail(err)
			return
		}

		p, err := e.call(fan.ctx, "concurrent", Request{Page: page, Limit: e.config.Limit})
		if err != nil {
			e.logger.Debug().
				Err(err).
				Int("page", page).
				Msg("Page fetch failed")
			fan.fail(err)
			return
		}
		pending.items = batchOf(p)
	}()

	return pending, nil
}

func concat[T any](batches []*pendingBatch[T]) []T {
	n := 0
	for _, b := range batches {
		n += len(b.items)
	}
	items := make([]T, 0, n)
	for _, b := range batches {
		items = append(items, b.items...)
	}
	return items
}

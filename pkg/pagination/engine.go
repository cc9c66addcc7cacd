package pagination

import (
	"context"
	"errors"
	"time"

	"github.com/Sternrassler/unpaginated/pkg/logging"
	"github.com/Sternrassler/unpaginated/pkg/trampoline"
	"github.com/rs/zerolog"
)

// progressEvery is how often (in pages) long runs log progress.
const progressEvery = 50

// Engine materializes every item of one paginated source.
type Engine[T any] struct {
	fetch  Fetcher[T]
	config Config
	logger zerolog.Logger
}

// New creates an engine for fetch.
func New[T any](fetch Fetcher[T], config Config) *Engine[T] {
	if fetch == nil {
		panic("fetch function cannot be nil")
	}
	if config.Limit < 0 {
		config.Limit = 0
	}
	if config.MaxConcurrency < 0 {
		config.MaxConcurrency = 0
	}

	logger := logging.NewLogger("pagination")
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Engine[T]{
		fetch:  fetch,
		config: config,
		logger: logger,
	}
}

// All fetches the first page, picks a strategy from its shape and returns
// every item of the source in page order.
//
// A plain list is followed page by page until a short or empty page. A
// counted page fans out all remaining pages at once. A cursored page is
// followed token by token until an empty page or an unusable token.
// Errors from the fetch function are returned as is and no partial result
// is ever returned.
func (e *Engine[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, shape, err := e.probe(ctx)
	if err != nil {
		return e.finish(shape, start, nil, err)
	}

	e.logger.Debug().
		Str("shape", string(shape)).
		Str("strategy", shape.Strategy()).
		Int("first_page_items", len(first.Batch())).
		Msg("Strategy selected")

	var items []T
	switch p := first.(type) {
	case Plain[T]:
		items, err = e.serialFrom(ctx, p)
	case Counted[T]:
		items, err = e.concurrentFrom(ctx, p)
	case Cursored[T]:
		items, err = e.followFrom(ctx, p)
	}

	return e.finish(shape, start, items, err)
}

// Serial walks pages 1, 2, 3... until a short or empty page. The source
// must answer with plain lists.
func (e *Engine[T]) Serial(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, shape, err := e.probeAs(ctx, ShapePlain)
	if err != nil {
		return e.finish(shape, start, nil, err)
	}

	items, err := e.serialFrom(ctx, first.(Plain[T]))
	return e.finish(shape, start, items, err)
}

// Concurrent reads the total from page 1 and requests every other page at
// once. The source must answer with counted pages.
func (e *Engine[T]) Concurrent(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, shape, err := e.probeAs(ctx, ShapeCounted)
	if err != nil {
		return e.finish(shape, start, nil, err)
	}

	items, err := e.concurrentFrom(ctx, first.(Counted[T]))
	return e.finish(shape, start, items, err)
}

// Follow walks a cursor chain starting from NoCursor. The source must
// answer with cursored pages.
func (e *Engine[T]) Follow(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, shape, err := e.probeAs(ctx, ShapeCursored)
	if err != nil {
		return e.finish(shape, start, nil, err)
	}

	items, err := e.followFrom(ctx, first.(Cursored[T]))
	return e.finish(shape, start, items, err)
}

// probe makes the first call and classifies its answer.
func (e *Engine[T]) probe(ctx context.Context) (Page[T], Shape, error) {
	p, err := e.call(ctx, "probe", Request{Page: 1, Limit: e.config.Limit})
	if err != nil {
		return nil, "", err
	}
	return classify(p)
}

func (e *Engine[T]) probeAs(ctx context.Context, want Shape) (Page[T], Shape, error) {
	first, shape, err := e.probe(ctx)
	if err != nil {
		return nil, shape, err
	}
	if shape != want {
		e.logger.Debug().
			Str("shape", string(shape)).
			Str("expected", string(want)).
			Msg("Unexpected page shape")
		return nil, ShapeInvalid, ErrShape
	}
	return first, shape, nil
}

// call invokes the fetch function on behalf of strategy.
func (e *Engine[T]) call(ctx context.Context, strategy string, req Request) (Page[T], error) {
	FetchesTotal.WithLabelValues(strategy).Inc()
	return e.fetch(ctx, req)
}

// progress logs every progressEvery pages of a long run.
func (e *Engine[T]) progress(strategy string) trampoline.Observer {
	return func(iteration int, done bool) {
		if done || iteration%progressEvery != 0 {
			return
		}
		e.logger.Debug().
			Str("strategy", strategy).
			Int("steps", iteration).
			Msg("Fetch progress")
	}
}

// finish records the outcome of a materialization.
func (e *Engine[T]) finish(shape Shape, start time.Time, items []T, err error) ([]T, error) {
	strategy := shape.Strategy()

	if err != nil {
		kind := "upstream"
		if errors.Is(err, ErrShape) {
			kind = "shape"
		}
		FailuresTotal.WithLabelValues(kind).Inc()
		e.logger.Warn().
			Err(err).
			Str("strategy", strategy).
			Str("kind", kind).
			Msg("Materialization failed")
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	ItemsTotal.WithLabelValues(strategy).Add(float64(len(items)))
	MaterializeDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Str("strategy", strategy).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Materialization complete")

	return items, nil
}

// clone copies a batch so appends never write into the caller's array.
func clone[T any](batch []T) []T {
	return append(make([]T, 0, len(batch)), batch...)
}

// All materializes every item of fetch; see Engine.All.
func All[T any](ctx context.Context, fetch Fetcher[T], opts ...Option) ([]T, error) {
	return New(fetch, buildConfig(opts)).All(ctx)
}

// Serial materializes a plain-list source; see Engine.Serial.
func Serial[T any](ctx context.Context, fetch Fetcher[T], opts ...Option) ([]T, error) {
	return New(fetch, buildConfig(opts)).Serial(ctx)
}

// Concurrent materializes a counted source; see Engine.Concurrent.
func Concurrent[T any](ctx context.Context, fetch Fetcher[T], opts ...Option) ([]T, error) {
	return New(fetch, buildConfig(opts)).Concurrent(ctx)
}

// Follow materializes a cursored source; see Engine.Follow.
func Follow[T any](ctx context.Context, fetch Fetcher[T], opts ...Option) ([]T, error) {
	return New(fetch, buildConfig(opts)).Follow(ctx)
}

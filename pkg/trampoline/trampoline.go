// Package trampoline runs recursive step functions in a flat loop.
//
// A step receives the current state and answers with either Continue (run
// again with a new state) or Done (finish with a result). Run keeps calling
// the step until it answers Done, so the Go call stack stays the same depth
// no matter how many iterations a computation needs.
//
// Example usage:
//
//	sum, err := trampoline.Run(ctx, func(ctx context.Context, n int) (trampoline.Signal[int, int], error) {
//		if n == 0 {
//			return trampoline.Done[int](0), nil
//		}
//		return trampoline.Continue[int, int](n - 1), nil
//	}, 1_000_000)
package trampoline

import "context"

// Step is one iteration of a trampolined computation.
type Step[S, R any] func(ctx context.Context, state S) (Signal[S, R], error)

// Signal is the tagged result of a Step: either a next state or a final value.
type Signal[S, R any] struct {
	done   bool
	state  S
	result R
}

// Continue asks Run to invoke the step again with state.
func Continue[S, R any](state S) Signal[S, R] {
	return Signal[S, R]{state: state}
}

// Done asks Run to stop and return result.
func Done[S, R any](result R) Signal[S, R] {
	return Signal[S, R]{done: true, result: result}
}

// IsDone reports whether the signal carries a final value.
func (s Signal[S, R]) IsDone() bool {
	return s.done
}

// State returns the carried state of a Continue signal.
func (s Signal[S, R]) State() S {
	return s.state
}

// Result returns the carried value of a Done signal.
func (s Signal[S, R]) Result() R {
	return s.result
}

// Observer is notified after every step that returned without error.
type Observer func(iteration int, done bool)

// Run drives step from initial until it signals Done.
//
// Errors returned by step are passed through untouched. Between iterations
// Run returns ctx.Err() once the context is done; a running step is never
// interrupted by Run itself.
func Run[S, R any](ctx context.Context, step Step[S, R], initial S) (R, error) {
	return RunObserved(ctx, step, initial, nil)
}

// RunObserved is Run with an Observer hook.
func RunObserved[S, R any](ctx context.Context, step Step[S, R], initial S, observe Observer) (R, error) {
	var zero R
	state := initial

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		signal, err := step(ctx, state)
		if err != nil {
			return zero, err
		}

		if observe != nil {
			observe(iteration, signal.done)
		}

		if signal.done {
			return signal.result, nil
		}
		state = signal.state
	}
}

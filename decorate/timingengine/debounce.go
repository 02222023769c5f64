package timingengine

import (
	"context"
	"sync"
	"time"

	utilclock "k8s.io/utils/clock"

	"github.com/tempokit/function-decorators-go/decorate"
)

// debounceState is the private state of one debounce decoration site. At most
// one timer is live at a time; every invocation replaces it and bumps gen, so
// a timer callback that lost the race for the mutex can tell it has been
// superseded and must not run.
type debounceState struct {
	mu    sync.Mutex
	gen   uint64
	timer utilclock.Timer
}

// Debounce returns a trailing-edge decorator. Every invocation cancels the
// pending execution (if any) and schedules a fresh one; after a quiet interval
// the base callable runs once with the arguments and context of the most
// recent call. The decorated call itself always returns (nil, nil)
// immediately.
//
// Execution is detached from all callers: an error from the deferred base
// callable goes to the configured error sink and the logs, it is never
// surfaced synchronously.
func Debounce(interval time.Duration, options ...Option) (decorate.Decorator, error) {
	cfg, err := newSettings(options)
	if err != nil {
		return nil, err
	}

	state := &debounceState{}

	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		state.mu.Lock()
		state.gen++
		gen := state.gen

		// Stop reports false when the timer already expired; in that case the
		// callback is still in flight and suppresses itself via gen below.
		if state.timer != nil && state.timer.Stop() {
			cfg.countSuperseded(ctx, decoratorDebounce)
		}

		state.timer = cfg.clock.AfterFunc(interval, func() {
			state.mu.Lock()
			if state.gen != gen {
				// a newer invocation arrived while this timer was expiring
				state.mu.Unlock()
				cfg.countSuperseded(ctx, decoratorDebounce)

				return
			}
			state.timer = nil
			state.mu.Unlock()

			if _, callErr := base(ctx, args...); callErr != nil {
				cfg.reportDeferredFailure(ctx, decoratorDebounce, callErr)
			}
		})
		state.mu.Unlock()

		return nil, nil
	}, nil
}

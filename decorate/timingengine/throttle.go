package timingengine

import (
	"context"
	"sync"
	"time"

	utilclock "k8s.io/utils/clock"

	"github.com/tempokit/function-decorators-go/decorate"
)

const (
	decoratorThrottle  = "throttle"
	decoratorDebounce  = "debounce"
	decoratorQueue     = "queue"
	decoratorRateLimit = "rate_limit"

	logMsgCallDropped        = "call dropped inside suppression window"
	logMsgCallSuperseded     = "pending call superseded by newer invocation"
	logMsgCallQueued         = "call appended to replay queue"
	logMsgDeferredCallFailed = "deferred call failed"
	logAttrDecorator         = "decorator"
	logAttrSiteID            = "site_id"
	logAttrError             = "error"
	logAttrQueueDepth        = "queue_depth"

	metricCallsDropped     = "decorate_calls_dropped"
	metricCallsSuperseded  = "decorate_calls_superseded"
	metricReplayDuration   = "decorate_queue_replay_duration"
	metricDeferredFailures = "decorate_deferred_failures"

	labelDecorator = "decorator"
	labelSiteID    = "site_id"

	spanQueueReplay = "decorate.queue.replay"
	spanStatusOK    = "ok"
	spanStatusError = "error"
)

// throttleState is the private state of one throttle decoration site. The
// mutex guards against the timer callback firing on its own goroutine.
type throttleState struct {
	mu         sync.Mutex
	windowOpen bool
	timer      utilclock.Timer
}

// Throttle returns a leading-edge rate limiting decorator. The first call in
// a closed window invokes the base callable synchronously, returns its result,
// and opens a suppression window of the given interval. Calls arriving while
// the window is open are dropped entirely: the base callable does not run and
// the decorated call returns (nil, nil).
//
// The window opens before the base callable runs, so a failing leading call
// still suppresses followers. An interval <= 0 disables suppression, every
// call fires.
func Throttle(interval time.Duration, options ...Option) (decorate.Decorator, error) {
	cfg, err := newSettings(options)
	if err != nil {
		return nil, err
	}

	state := &throttleState{}

	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		if interval <= 0 {
			return base(ctx, args...)
		}

		state.mu.Lock()
		if state.windowOpen {
			state.mu.Unlock()
			cfg.countDrop(ctx, decoratorThrottle)

			return nil, nil
		}

		state.windowOpen = true
		state.timer = cfg.clock.AfterFunc(interval, func() {
			state.mu.Lock()
			state.windowOpen = false
			state.timer = nil
			state.mu.Unlock()
		})
		state.mu.Unlock()

		return base(ctx, args...)
	}, nil
}

package timingengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	utilclock "k8s.io/utils/clock"

	"github.com/tempokit/function-decorators-go/decorate"
)

// queuedCall is one captured invocation awaiting replay. Context, arguments,
// and the base callable are captured at call time and carried into the replay.
type queuedCall struct {
	ctx  context.Context
	args decorate.Args
	base decorate.Callable
}

// queueState is the private state of one queue decoration site: the FIFO of
// pending calls plus the drain timer.
type queueState struct {
	mu       sync.Mutex
	pending  []queuedCall
	timer    utilclock.Timer
	draining bool
}

// Queue returns a serialized-delayed-replay decorator. Every invocation
// appends its arguments and context to a FIFO and returns (nil, nil)
// immediately. A drain cycle replays the pending calls strictly in submission
// order, one per interval, never overlapping. When the queue runs empty the
// cycle stops until the next invocation restarts it.
//
// By default even the first call of an idle queue waits one interval before
// running; WithImmediateFirstReplay changes that to a synchronous replay at
// submission.
//
// Replays are detached from their callers: errors and panics of one replay go
// to the error sink and the logs, and the drain continues with the next entry.
func Queue(interval time.Duration, options ...Option) (decorate.Decorator, error) {
	cfg, err := newSettings(options)
	if err != nil {
		return nil, err
	}

	state := &queueState{}

	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		state.mu.Lock()

		if cfg.immediateFirstReplay && !state.draining {
			state.draining = true
			state.mu.Unlock()

			replay(cfg, queuedCall{ctx: ctx, args: args, base: base})

			state.mu.Lock()
			state.armLocked(cfg, interval)
			state.mu.Unlock()

			return nil, nil
		}

		state.pending = append(state.pending, queuedCall{ctx: ctx, args: args, base: base})
		depth := len(state.pending)

		if !state.draining {
			state.draining = true
			state.armLocked(cfg, interval)
		}
		state.mu.Unlock()

		if cfg.logger != nil {
			cfg.logger.Debug(logMsgCallQueued,
				logAttrDecorator, decoratorQueue, logAttrSiteID, cfg.siteID, logAttrQueueDepth, depth)
		}

		return nil, nil
	}, nil
}

func (s *queueState) armLocked(cfg settings, interval time.Duration) {
	s.timer = cfg.clock.AfterFunc(interval, func() {
		s.drainOne(cfg, interval)
	})
}

// drainOne is the timer callback of the drain cycle: pop the oldest entry,
// replay it, then re-arm if entries remain or go idle otherwise.
func (s *queueState) drainOne(cfg settings, interval time.Duration) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.draining = false
		s.timer = nil
		s.mu.Unlock()

		return
	}

	head := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	replay(cfg, head)

	s.mu.Lock()
	if len(s.pending) > 0 {
		s.armLocked(cfg, interval)
	} else {
		s.draining = false
		s.timer = nil
	}
	s.mu.Unlock()
}

// replay runs one captured call against its base callable. It is guarded so
// that neither an error nor a panic of one replay halts the FIFO drain.
func replay(cfg settings, call queuedCall) {
	defer func() {
		if r := recover(); r != nil {
			cfg.reportDeferredFailure(call.ctx, decoratorQueue, fmt.Errorf("replayed call panicked: %v", r))
		}
	}()

	ctx := call.ctx

	var span decorate.SpanContext
	if cfg.tracingCollector != nil {
		ctx, span = cfg.tracingCollector.StartSpan(ctx, spanQueueReplay, cfg.labels(decoratorQueue))
	}

	started := cfg.clock.Now()
	_, callErr := call.base(ctx, call.args...)
	duration := cfg.clock.Now().Sub(started)

	if cfg.metricsCollector != nil {
		cfg.metricsCollector.RecordDuration(metricReplayDuration, duration, cfg.labels(decoratorQueue))
	}

	if span != nil {
		status := spanStatusOK
		if callErr != nil {
			status = spanStatusError
		}
		cfg.tracingCollector.FinishSpan(span, status, nil)
	}

	if callErr != nil {
		cfg.reportDeferredFailure(call.ctx, decoratorQueue, callErr)
	}
}

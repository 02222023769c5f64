package timingengine

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/tempokit/function-decorators-go/decorate"
)

// RateLimit returns a token-bucket decorator allowing up to burst calls at
// once and limit calls per second on average. Calls without an available
// token are dropped like throttled calls: the base callable does not run and
// the decorated call returns (nil, nil).
//
// Unlike Throttle this smooths sustained traffic instead of suppressing
// bursts behind a single leading call. The bucket measures against the wall
// clock; WithClock has no effect here.
func RateLimit(limit rate.Limit, burst int, options ...Option) (decorate.Decorator, error) {
	cfg, err := newSettings(options)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(limit, burst)

	return func(ctx context.Context, base decorate.Callable, args decorate.Args) (any, error) {
		if !limiter.Allow() {
			cfg.countDrop(ctx, decoratorRateLimit)

			return nil, nil
		}

		return base(ctx, args...)
	}, nil
}

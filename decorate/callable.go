package decorate

import (
	"context"
)

// Args is the captured variadic argument list of one invocation.
type Args = []any

// Callable is any invocable unit of behavior: it accepts an invocation
// context and a variadic argument list and produces a single result or
// an error.
type Callable func(ctx context.Context, args ...any) (any, error)

// Decorator is invoked once per call of a decorated callable. It receives
// the base callable and the captured arguments and fully controls whether,
// when, and how the base callable executes. The context must be forwarded
// to the base callable unchanged.
type Decorator func(ctx context.Context, base Callable, args Args) (any, error)

// Decorate binds a Decorator to a base Callable and returns the decorated
// callable. The returned callable owns no state itself; any state lives
// inside the decorator. Errors raised by the decorator or the base callable
// propagate unchanged to the caller.
func Decorate(base Callable, decorator Decorator) Callable {
	return func(ctx context.Context, args ...any) (any, error) {
		return decorator(ctx, base, args)
	}
}

// Chain decorates the base callable with all given decorators, the first
// decorator being the outermost. Chain with no decorators returns the base
// callable unchanged.
func Chain(base Callable, decorators ...Decorator) Callable {
	decorated := base
	for i := len(decorators) - 1; i >= 0; i-- {
		decorated = Decorate(decorated, decorators[i])
	}

	return decorated
}

// PassThrough returns a decorator that invokes the base callable with
// unchanged arguments and context. Decorating with it is behaviorally
// identical to not decorating at all.
func PassThrough() Decorator {
	return func(ctx context.Context, base Callable, args Args) (any, error) {
		return base(ctx, args...)
	}
}

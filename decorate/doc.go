// Package decorate provides core abstractions for composable function
// decoration.
//
// This package defines the fundamental types used across the decorator
// implementations: the Callable and Decorator signatures, the dispatch
// adapter that binds them together, common error definitions, and the
// dependency-free observability interfaces.
//
// A Decorator receives the base callable together with the captured
// arguments of one invocation and fully controls whether, when, and how
// the base callable executes. The invocation context is propagated
// implicitly and must be forwarded to the base callable unchanged.
//
// Common usage pattern:
//
//	throttled, err := timingengine.Throttle(200 * time.Millisecond)
//	if err != nil {
//		// handle error
//	}
//
//	notify := decorate.Decorate(sendNotification, throttled)
//
//	// each invocation now flows through the throttle policy
//	result, err := notify(ctx, "user-42", "welcome")
//
// Decorators compose: Chain applies several policies around one base
// callable, with the first decorator outermost.
package decorate

// Package timingengine implements the stateful timing decorators: throttle,
// debounce, queue, and a token-bucket rate limit.
//
// Each factory call creates one decoration site with its own private state
// (timer handle, pending call queue). A decorator instance is meant to be
// reused across repeated calls of the same decorated callable; sharing one
// instance between two independently decorated callables is a misuse the
// package does not guard against.
//
// Semantics at a glance:
//
//   - Throttle(interval): leading edge. The first call in a closed window runs
//     synchronously and opens a suppression window; calls inside the window are
//     dropped and return no result.
//   - Debounce(interval): trailing edge with reset. Every call cancels the
//     pending execution and schedules a new one; after a quiet interval the
//     base callable runs once with the most recent call's arguments.
//   - Queue(interval): serialized delayed replay. Calls are appended to a FIFO
//     and replayed one per interval, strictly in submission order, never
//     overlapping. A failing replay does not halt the drain.
//   - RateLimit(limit, burst): token bucket. Calls without an available token
//     are dropped like throttled calls.
//
// Deferred executions (debounce, queue) detach errors from the original call
// site: failures are routed to the configured error sink and logged, never
// surfaced to any caller.
//
// All factories accept functional options for the clock, logging, metrics,
// tracing, and the error sink:
//
//	throttled, err := timingengine.Throttle(250*time.Millisecond,
//		timingengine.WithLogger(logger),
//		timingengine.WithMetrics(collector),
//	)
package timingengine

package timingengine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	utilclock "k8s.io/utils/clock"

	"github.com/tempokit/function-decorators-go/decorate"
)

// ErrNilClock is returned when a nil clock is supplied via WithClock.
var ErrNilClock = errors.New("nil clock supplied")

// ErrorSink receives errors from deferred executions (debounce and queue
// replays) together with the context captured at call time. It replaces
// synchronous error propagation, which is impossible once execution has been
// detached from the original call site.
type ErrorSink func(ctx context.Context, err error)

// settings holds the per-decoration-site configuration shared by all timing
// factories. One settings value is built per factory call, so the site ID is
// unique per decorated callable.
type settings struct {
	clock                Clock
	logger               decorate.Logger
	contextualLogger     decorate.ContextualLogger
	metricsCollector     decorate.MetricsCollector
	tracingCollector     decorate.TracingCollector
	errorSink            ErrorSink
	immediateFirstReplay bool
	siteID               string
}

// Option defines a functional option for configuring a timing decorator.
type Option func(*settings) error

// WithClock sets the clock used for scheduling deferred executions. The
// default is the real wall clock.
func WithClock(c Clock) Option {
	return func(s *settings) error {
		if c == nil {
			return ErrNilClock
		}

		s.clock = c

		return nil
	}
}

// WithLogger sets the logger for the decorator.
//
// Debug level: dropped, superseded, and queued calls (development use)
// Error level: failures of deferred executions.
func WithLogger(logger decorate.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the decorator. Deferred
// failures are logged through it with the context captured at call time,
// enabling automatic trace correlation when tracing is enabled.
func WithContextualLogger(logger decorate.ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the decorator. The collector
// will receive drop/supersede counters, replay durations, and deferred
// failure counts, labeled with the decorator kind and the decoration site ID.
func WithMetrics(collector decorate.MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the decorator. Queue replays are
// wrapped in spans so detached executions stay visible in traces.
func WithTracing(collector decorate.TracingCollector) Option {
	return func(s *settings) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithErrorSink sets the sink that receives errors from deferred executions.
func WithErrorSink(sink ErrorSink) Option {
	return func(s *settings) error {
		s.errorSink = sink
		return nil
	}
}

// WithImmediateFirstReplay makes Queue replay the first call of an idle queue
// synchronously at submission instead of waiting one interval. Subsequent
// calls still drain one per interval.
func WithImmediateFirstReplay() Option {
	return func(s *settings) error {
		s.immediateFirstReplay = true
		return nil
	}
}

func newSettings(options []Option) (settings, error) {
	s := settings{
		clock:  utilclock.RealClock{},
		siteID: uuid.New().String(),
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return settings{}, err
		}
	}

	return s, nil
}

func (s settings) labels(decorator string) map[string]string {
	return map[string]string{
		labelDecorator: decorator,
		labelSiteID:    s.siteID,
	}
}

// countDrop records a call that was suppressed without executing the base
// callable (throttle window, rate limit).
func (s settings) countDrop(ctx context.Context, decorator string) {
	if s.metricsCollector != nil {
		if contextual, ok := s.metricsCollector.(decorate.ContextualMetricsCollector); ok {
			contextual.IncrementCounterContext(ctx, metricCallsDropped, s.labels(decorator))
		} else {
			s.metricsCollector.IncrementCounter(metricCallsDropped, s.labels(decorator))
		}
	}

	if s.logger != nil {
		s.logger.Debug(logMsgCallDropped, logAttrDecorator, decorator, logAttrSiteID, s.siteID)
	}
}

// countSuperseded records a pending debounce execution that was replaced by a
// newer invocation before it could run.
func (s settings) countSuperseded(ctx context.Context, decorator string) {
	if s.metricsCollector != nil {
		if contextual, ok := s.metricsCollector.(decorate.ContextualMetricsCollector); ok {
			contextual.IncrementCounterContext(ctx, metricCallsSuperseded, s.labels(decorator))
		} else {
			s.metricsCollector.IncrementCounter(metricCallsSuperseded, s.labels(decorator))
		}
	}

	if s.logger != nil {
		s.logger.Debug(logMsgCallSuperseded, logAttrDecorator, decorator, logAttrSiteID, s.siteID)
	}
}

// reportDeferredFailure routes an error from a detached execution to the sink
// and the logs. It must never re-surface the error synchronously.
func (s settings) reportDeferredFailure(ctx context.Context, decorator string, err error) {
	if s.errorSink != nil {
		s.errorSink(ctx, err)
	}

	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(metricDeferredFailures, s.labels(decorator))
	}

	switch {
	case s.contextualLogger != nil:
		s.contextualLogger.ErrorContext(ctx, logMsgDeferredCallFailed,
			logAttrDecorator, decorator, logAttrSiteID, s.siteID, logAttrError, err.Error())
	case s.logger != nil:
		s.logger.Error(logMsgDeferredCallFailed,
			logAttrDecorator, decorator, logAttrSiteID, s.siteID, logAttrError, err.Error())
	}
}

package decorate

import (
	"context"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	logMsgCallProfiled     = "decorated call profiled"
	logMsgDeprecatedCalled = "deprecated callable invoked"
	logAttrLabel           = "label"
	logAttrDurationMS      = "duration_ms"
	logAttrArgs            = "args"
	logAttrMessage         = "message"
	metricProfileDuration  = "decorate_profile_call_duration"
	labelProfileLabel      = "label"
)

// Profile returns a decorator that measures the wall-clock duration of every
// call and reports it through the given collector and logger. The result and
// any error of the base callable pass through unchanged. Either logger or
// metricsCollector may be nil.
func Profile(label string, logger Logger, metricsCollector MetricsCollector) Decorator {
	return func(ctx context.Context, base Callable, args Args) (any, error) {
		started := time.Now()
		result, err := base(ctx, args...)
		duration := time.Since(started)

		if metricsCollector != nil {
			metricsCollector.RecordDuration(metricProfileDuration, duration, map[string]string{labelProfileLabel: label})
		}

		if logger != nil {
			logger.Debug(logMsgCallProfiled,
				logAttrLabel, label,
				logAttrDurationMS, duration.Milliseconds(),
				logAttrArgs, renderArgs(args))
		}

		return result, err
	}
}

// Deprecate returns a pass-through decorator that warns that the decorated
// callable is deprecated. With eachCall set the warning repeats on every
// invocation, otherwise it is logged once per decoration site.
func Deprecate(message string, eachCall bool, logger Logger) Decorator {
	var once sync.Once

	warn := func() {
		if logger != nil {
			logger.Warn(logMsgDeprecatedCalled, logAttrMessage, message)
		}
	}

	return func(ctx context.Context, base Callable, args Args) (any, error) {
		if eachCall {
			warn()
		} else {
			once.Do(warn)
		}

		return base(ctx, args...)
	}
}

func renderArgs(args Args) string {
	rendered, marshallingErr := jsoniter.ConfigFastest.MarshalToString(args)
	if marshallingErr != nil {
		return fmt.Sprintf("%v", args)
	}

	return rendered
}

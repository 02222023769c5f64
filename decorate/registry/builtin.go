package registry

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tempokit/function-decorators-go/decorate"
	"github.com/tempokit/function-decorators-go/decorate/timingengine"
	"github.com/tempokit/function-decorators-go/decorate/validate"
)

const (
	NameThrottle        = "throttle"
	NameDebounce        = "debounce"
	NameQueue           = "queue"
	NameRateLimit       = "rateLimit"
	NameStrictArguments = "strictArguments"
	NameStrictReturn    = "strictReturn"
	NameProfile         = "profile"
	NameDeprecate       = "deprecate"
)

// Builtin creates a Registry preloaded with the standard decorator factories.
// The logger and metrics collector (either may be nil) are handed to the
// profile and deprecate hooks and appended to the timing options, so
// decorators built by name report through the same channels as directly
// constructed ones. The timing options apply to every timing factory the
// registry instantiates.
func Builtin(logger decorate.Logger, collector decorate.MetricsCollector, timingOptions ...timingengine.Option) (*Registry, error) {
	options := timingOptions
	if logger != nil {
		options = append(options, timingengine.WithLogger(logger))
	}
	if collector != nil {
		options = append(options, timingengine.WithMetrics(collector))
	}

	r := New()

	builtins := map[string]Factory{
		NameThrottle: func(args ...any) (decorate.Decorator, error) {
			interval, err := intervalArg(NameThrottle, args)
			if err != nil {
				return nil, err
			}
			return timingengine.Throttle(interval, options...)
		},
		NameDebounce: func(args ...any) (decorate.Decorator, error) {
			interval, err := intervalArg(NameDebounce, args)
			if err != nil {
				return nil, err
			}
			return timingengine.Debounce(interval, options...)
		},
		NameQueue: func(args ...any) (decorate.Decorator, error) {
			interval, err := intervalArg(NameQueue, args)
			if err != nil {
				return nil, err
			}
			return timingengine.Queue(interval, options...)
		},
		NameRateLimit: func(args ...any) (decorate.Decorator, error) {
			limit, burst, err := rateLimitArgs(args)
			if err != nil {
				return nil, err
			}
			return timingengine.RateLimit(limit, burst, options...)
		},
		NameStrictArguments: func(args ...any) (decorate.Decorator, error) {
			tags, err := tagArgs(NameStrictArguments, args)
			if err != nil {
				return nil, err
			}
			return validate.StrictArguments(tags...), nil
		},
		NameStrictReturn: func(args ...any) (decorate.Decorator, error) {
			tags, err := tagArgs(NameStrictReturn, args)
			if err != nil {
				return nil, err
			}
			if len(tags) != 1 {
				return nil, errors.Join(ErrInvalidFactoryArgument,
					fmt.Errorf("%s expects exactly one type tag, got %d", NameStrictReturn, len(tags)))
			}
			return validate.StrictReturn(tags[0]), nil
		},
		NameProfile: func(args ...any) (decorate.Decorator, error) {
			label, err := stringArg(NameProfile, args)
			if err != nil {
				return nil, err
			}
			return decorate.Profile(label, logger, collector), nil
		},
		NameDeprecate: func(args ...any) (decorate.Decorator, error) {
			message, eachCall, err := deprecateArgs(args)
			if err != nil {
				return nil, err
			}
			return decorate.Deprecate(message, eachCall, logger), nil
		},
	}

	for name, factory := range builtins {
		if err := r.Add(name, factory); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// intervalArg coerces the single factory argument into a duration. Durations
// pass through as-is; bare numbers are interpreted as milliseconds.
func intervalArg(name string, args []any) (time.Duration, error) {
	if len(args) != 1 {
		return 0, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s expects exactly one interval argument, got %d", name, len(args)))
	}

	switch value := args[0].(type) {
	case time.Duration:
		return value, nil
	case int:
		return time.Duration(value) * time.Millisecond, nil
	case int64:
		return time.Duration(value) * time.Millisecond, nil
	case float64:
		return time.Duration(value * float64(time.Millisecond)), nil
	default:
		return 0, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s interval: expected duration or number of milliseconds, got %T", name, args[0]))
	}
}

func rateLimitArgs(args []any) (rate.Limit, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s expects a per-second limit and a burst, got %d arguments", NameRateLimit, len(args)))
	}

	var limit rate.Limit
	switch value := args[0].(type) {
	case float64:
		limit = rate.Limit(value)
	case int:
		limit = rate.Limit(value)
	case rate.Limit:
		limit = value
	default:
		return 0, 0, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s limit: expected a number, got %T", NameRateLimit, args[0]))
	}

	burst, ok := args[1].(int)
	if !ok {
		return 0, 0, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s burst: expected an int, got %T", NameRateLimit, args[1]))
	}

	return limit, burst, nil
}

func tagArgs(name string, args []any) ([]validate.TypeTag, error) {
	tags := make([]validate.TypeTag, 0, len(args))

	for position, arg := range args {
		text, ok := arg.(string)
		if !ok {
			return nil, errors.Join(ErrInvalidFactoryArgument,
				fmt.Errorf("%s argument %d: expected a type tag string, got %T", name, position, arg))
		}

		tag := validate.TypeTag(text)
		if !validate.Known(tag) {
			return nil, errors.Join(ErrInvalidFactoryArgument, validate.ErrUnknownTypeTag,
				fmt.Errorf("%s argument %d: %q", name, position, text))
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

func stringArg(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s expects exactly one string argument, got %d", name, len(args)))
	}

	text, ok := args[0].(string)
	if !ok {
		return "", errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s: expected a string, got %T", name, args[0]))
	}

	return text, nil
}

func deprecateArgs(args []any) (string, bool, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", false, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s expects a message and an optional each-call flag, got %d arguments", NameDeprecate, len(args)))
	}

	message, ok := args[0].(string)
	if !ok {
		return "", false, errors.Join(ErrInvalidFactoryArgument,
			fmt.Errorf("%s message: expected a string, got %T", NameDeprecate, args[0]))
	}

	eachCall := false
	if len(args) == 2 {
		eachCall, ok = args[1].(bool)
		if !ok {
			return "", false, errors.Join(ErrInvalidFactoryArgument,
				fmt.Errorf("%s each-call flag: expected a bool, got %T", NameDeprecate, args[1]))
		}
	}

	return message, eachCall, nil
}

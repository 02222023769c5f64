package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempokit/function-decorators-go/decorate"
	"github.com/tempokit/function-decorators-go/decorate/registry"
	"github.com/tempokit/function-decorators-go/decorate/timingengine"
	"github.com/tempokit/function-decorators-go/testutil/fakeclock"
)

func passThroughFactory(args ...any) (decorate.Decorator, error) {
	return decorate.PassThrough(), nil
}

func Test_Registry_Add_And_Lookup(t *testing.T) {
	reg := registry.New()

	err := reg.Add("noop", passThroughFactory)
	require.NoError(t, err)

	factory, err := reg.Factory("noop")
	require.NoError(t, err)
	assert.NotNil(t, factory)
	assert.Equal(t, []string{"noop"}, reg.Names())
}

func Test_Registry_UnknownName_Fails(t *testing.T) {
	reg := registry.New()

	_, err := reg.Factory("missing")

	assert.ErrorIs(t, err, decorate.ErrUnknownDecorator)
}

func Test_Registry_Add_EmptyName_IsRejected(t *testing.T) {
	reg := registry.New()

	err := reg.Add("", passThroughFactory)

	assert.ErrorIs(t, err, registry.ErrEmptyDecoratorName)
}

func Test_Registry_Add_NilFactory_IsRejected(t *testing.T) {
	reg := registry.New()

	err := reg.Add("noop", nil)

	assert.ErrorIs(t, err, decorate.ErrNilFactory)
}

func Test_Registry_Add_LastWriteWins(t *testing.T) {
	reg := registry.New()

	require.NoError(t, reg.Add("marker", func(args ...any) (decorate.Decorator, error) {
		return func(ctx context.Context, base decorate.Callable, callArgs decorate.Args) (any, error) {
			return "first", nil
		}, nil
	}))
	require.NoError(t, reg.Add("marker", func(args ...any) (decorate.Decorator, error) {
		return func(ctx context.Context, base decorate.Callable, callArgs decorate.Args) (any, error) {
			return "second", nil
		}, nil
	}))

	decorated, err := reg.Decorate(func(ctx context.Context, args ...any) (any, error) {
		return nil, nil
	}, "marker")
	require.NoError(t, err)

	result, err := decorated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", result)
}

func Test_Registry_Decorate_NilCallable_IsRejected(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Add("noop", passThroughFactory))

	_, err := reg.Decorate(nil, "noop")

	assert.ErrorIs(t, err, decorate.ErrNilCallable)
}

func Test_Builtin_ByName_MatchesDirectFactory_ForThrottle(t *testing.T) {
	// setup: one shared fake clock drives both decoration sites
	clk := fakeclock.New(time.Unix(0, 0))
	ctx := context.Background()

	var mu sync.Mutex
	executions := map[string]int{}
	baseFor := func(name string) decorate.Callable {
		return func(ctx context.Context, args ...any) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			executions[name]++

			return nil, nil
		}
	}

	direct, err := timingengine.Throttle(time.Second, timingengine.WithClock(clk))
	require.NoError(t, err)
	directCallable := decorate.Decorate(baseFor("direct"), direct)

	reg, err := registry.Builtin(nil, nil, timingengine.WithClock(clk))
	require.NoError(t, err)
	namedCallable, err := reg.Decorate(baseFor("named"), registry.NameThrottle, time.Second)
	require.NoError(t, err)

	// act: identical call pattern against both
	fire := func() {
		_, _ = directCallable(ctx, "x")
		_, _ = namedCallable(ctx, "x")
	}

	fire()
	fire() // in-window, dropped by both
	clk.Step(time.Second)
	fire() // fresh leading edge for both

	// assert: behaviorally identical
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, executions["direct"], executions["named"])
	assert.Equal(t, 2, executions["direct"])
}

func Test_Builtin_IntervalCoercion_NumbersAreMilliseconds(t *testing.T) {
	clk := fakeclock.New(time.Unix(0, 0))
	reg, err := registry.Builtin(nil, nil, timingengine.WithClock(clk))
	require.NoError(t, err)

	executed := 0
	decorated, err := reg.Decorate(func(ctx context.Context, args ...any) (any, error) {
		executed++
		return nil, nil
	}, registry.NameDebounce, 250)
	require.NoError(t, err)

	_, _ = decorated(context.Background(), "payload")
	clk.Step(249 * time.Millisecond)
	assert.Zero(t, executed)

	clk.Step(time.Millisecond)
	assert.Equal(t, 1, executed)
}

func Test_Builtin_ContainsAllStandardFactories(t *testing.T) {
	reg, err := registry.Builtin(nil, nil)
	require.NoError(t, err)

	for _, name := range []string{
		registry.NameThrottle, registry.NameDebounce, registry.NameQueue,
		registry.NameRateLimit, registry.NameStrictArguments,
		registry.NameStrictReturn, registry.NameProfile, registry.NameDeprecate,
	} {
		_, lookupErr := reg.Factory(name)
		assert.NoError(t, lookupErr, name)
	}
}

func Test_Builtin_FactoryArgumentCoercion_Failures(t *testing.T) {
	reg, err := registry.Builtin(nil, nil)
	require.NoError(t, err)

	base := func(ctx context.Context, args ...any) (any, error) {
		return nil, nil
	}

	tests := []struct {
		name        string
		decorator   string
		factoryArgs []any
	}{
		{name: "throttle_without_interval", decorator: registry.NameThrottle, factoryArgs: nil},
		{name: "throttle_with_string_interval", decorator: registry.NameThrottle, factoryArgs: []any{"soon"}},
		{name: "strict_arguments_with_unknown_tag", decorator: registry.NameStrictArguments, factoryArgs: []any{"integer"}},
		{name: "strict_arguments_with_non_string", decorator: registry.NameStrictArguments, factoryArgs: []any{42}},
		{name: "strict_return_with_two_tags", decorator: registry.NameStrictReturn, factoryArgs: []any{"number", "string"}},
		{name: "profile_without_label", decorator: registry.NameProfile, factoryArgs: nil},
		{name: "deprecate_with_numeric_message", decorator: registry.NameDeprecate, factoryArgs: []any{42}},
		{name: "rate_limit_without_burst", decorator: registry.NameRateLimit, factoryArgs: []any{1.0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, decorateErr := reg.Decorate(base, tc.decorator, tc.factoryArgs...)
			assert.ErrorIs(t, decorateErr, registry.ErrInvalidFactoryArgument)
		})
	}
}

func Test_Builtin_StrictArguments_ByName_Validates(t *testing.T) {
	reg, err := registry.Builtin(nil, nil)
	require.NoError(t, err)

	baseRan := false
	decorated, err := reg.Decorate(func(ctx context.Context, args ...any) (any, error) {
		baseRan = true
		return nil, nil
	}, registry.NameStrictArguments, "number", "string")
	require.NoError(t, err)

	_, callErr := decorated(context.Background(), 1)

	assert.ErrorIs(t, callErr, decorate.ErrValidation)
	assert.False(t, baseRan)
}

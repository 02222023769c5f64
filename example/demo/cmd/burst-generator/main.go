// Command burst-generator fires bursts of calls through one of the timing
// decorators and prints which invocations actually executed. It is a small
// playground for observing leading-edge, trailing-edge, and queued-replay
// behavior with real timers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tempokit/function-decorators-go/decorate/oteladapters"
	"github.com/tempokit/function-decorators-go/decorate/registry"
	"github.com/tempokit/function-decorators-go/decorate/timingengine"
)

const (
	defaultDecorator = registry.NameThrottle
	defaultInterval  = 300 * time.Millisecond
	defaultBurstSize = 5
	defaultBursts    = 3
	defaultBurstGap  = time.Second
)

type config struct {
	Decorator string
	Interval  time.Duration
	BurstSize int
	Bursts    int
	BurstGap  time.Duration
	Verbose   bool
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := oteladapters.NewSlogLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	reg, err := registry.Builtin(logger, nil,
		timingengine.WithErrorSink(func(_ context.Context, sinkErr error) {
			logger.Error("deferred call failed", "error", sinkErr.Error())
		}),
	)
	if err != nil {
		log.Fatalf("Failed to build decorator registry: %v", err)
	}

	var executed atomic.Int64
	base := func(_ context.Context, args ...any) (any, error) {
		count := executed.Add(1)
		fmt.Printf("  -> executed with args %v (execution #%d)\n", args, count)

		return count, nil
	}

	decorated, err := reg.Decorate(base, cfg.Decorator, cfg.Interval)
	if err != nil {
		log.Fatalf("Failed to decorate with %q: %v", cfg.Decorator, err)
	}

	fmt.Printf("Firing %d bursts of %d calls through %s(%s)\n",
		cfg.Bursts, cfg.BurstSize, cfg.Decorator, cfg.Interval)

	sequence := 0
	for burst := 0; burst < cfg.Bursts; burst++ {
		if ctx.Err() != nil {
			break
		}

		fmt.Printf("burst %d:\n", burst+1)
		for i := 0; i < cfg.BurstSize; i++ {
			sequence++
			if _, callErr := decorated(ctx, sequence); callErr != nil {
				logger.Error("decorated call failed", "error", callErr.Error())
			}
		}

		select {
		case <-ctx.Done():
		case <-time.After(cfg.BurstGap):
		}
	}

	// give deferred executions (debounce, queue) time to settle
	settle := time.Duration(cfg.BurstSize*cfg.Bursts+1) * cfg.Interval
	select {
	case <-ctx.Done():
	case <-time.After(settle):
	}

	fmt.Printf("issued %d calls, %d executed\n", sequence, executed.Load())
}

func parseFlags() config {
	cfg := config{}

	flag.StringVar(&cfg.Decorator, "decorator", defaultDecorator,
		"timing decorator to apply: throttle, debounce, or queue")
	flag.DurationVar(&cfg.Interval, "interval", defaultInterval, "decorator interval")
	flag.IntVar(&cfg.BurstSize, "burst-size", defaultBurstSize, "calls per burst")
	flag.IntVar(&cfg.Bursts, "bursts", defaultBursts, "number of bursts")
	flag.DurationVar(&cfg.BurstGap, "burst-gap", defaultBurstGap, "pause between bursts")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "log dropped and queued calls")
	flag.Parse()

	return cfg
}

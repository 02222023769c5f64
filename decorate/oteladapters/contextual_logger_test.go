package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempokit/function-decorators-go/decorate/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_WritesThroughHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "deferred call failed", "decorator", "debounce")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	output := buf.String()
	assert.Contains(t, output, "deferred call failed")
	assert.Contains(t, output, "decorator=debounce")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("decorate-test")

	require.NotNil(t, logger)
}

func Test_SlogLogger_WritesThroughHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogLogger(slog.New(handler))

	logger.Debug("call dropped inside suppression window", "decorator", "throttle")
	logger.Warn("deprecated callable invoked")

	output := buf.String()
	assert.Contains(t, output, "call dropped inside suppression window")
	assert.Contains(t, output, "decorator=throttle")
	assert.Contains(t, output, "deprecated callable invoked")
}

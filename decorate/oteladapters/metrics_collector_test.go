package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tempokit/function-decorators-go/decorate/oteladapters"
)

func Test_NewMetricsCollector_Construction(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	assert.NotNil(t, collector, "NewMetricsCollector should return non-nil collector")
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	testDuration := 150 * time.Millisecond
	labels := map[string]string{
		"decorator": "queue",
		"site_id":   "site-1",
	}
	collector.RecordDuration("decorate_queue_replay_duration", testDuration, labels)

	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	recorded := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "decorate_queue_replay_duration", recorded.Name)

	histogram, ok := recorded.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "duration metric should be a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.InDelta(t, testDuration.Seconds(), histogram.DataPoints[0].Sum, 0.001)
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	labels := map[string]string{"decorator": "throttle"}
	collector.IncrementCounter("decorate_calls_dropped", labels)
	collector.IncrementCounter("decorate_calls_dropped", labels)

	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	recorded := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "decorate_calls_dropped", recorded.Name)

	sum, ok := recorded.Data.(metricdata.Sum[int64])
	require.True(t, ok, "counter metric should be an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	collector := oteladapters.NewMetricsCollector(meter)

	collector.RecordValue("decorate_queue_depth", 3, map[string]string{"decorator": "queue"})

	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	recorded := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "decorate_queue_depth", recorded.Name)

	gauge, ok := recorded.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "value metric should be a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, float64(3), gauge.DataPoints[0].Value)
}

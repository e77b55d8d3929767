package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestMeterProvider(t *testing.T) (*MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumWith adds up the int64 sum points of name that carry every attr
func sumWith(t *testing.T, rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", name)

	var total int64
points:
	for _, dp := range sum.DataPoints {
		for _, attr := range attrs {
			if v, ok := dp.Attributes.Value(attr.Key); !ok || v != attr.Value {
				continue points
			}
		}
		total += dp.Value
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false, ServiceName: "crm-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))

	var missing *MeterProvider
	assert.False(t, missing.IsEnabled())
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector is needed to build the provider
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Hour,
		ServiceName:       "crm-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	counter, err := NewCounter(mp.Meter("test"), "test_total", "test", "{event}")
	require.NoError(t, err)
	counter.Inc(ctx)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = mp.Shutdown(cancelled)
}

func TestMetricsConfigFromApp(t *testing.T) {
	cfg := MetricsConfigFromApp(config.TelemetryConfig{
		MetricsEnabled:        true,
		MetricsExportInterval: 30 * time.Second,
		CollectorEndpoint:     "otel:4317",
		ServiceName:           "crm-backend",
		Insecure:              true,
	})

	assert.Equal(t, MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		ExportInterval:    30 * time.Second,
		ServiceName:       "crm-backend",
		Insecure:          true,
	}, cfg)
}

func TestInstruments(t *testing.T) {
	ctx := context.Background()
	mp, reader := newTestMeterProvider(t)
	meter := mp.Meter("test")

	counter, err := NewCounter(meter, "events_total", "Events", "{event}")
	require.NoError(t, err)
	counter.Inc(ctx, AttrOutcome.String("a"))
	counter.Add(ctx, 4, AttrOutcome.String("a"))
	counter.Inc(ctx, AttrOutcome.String("b"))

	histogram, err := NewHistogram(meter, HistogramOpts{
		Name:       "latency_seconds",
		Unit:       "s",
		Boundaries: HTTPDurationBuckets,
	})
	require.NoError(t, err)
	histogram.RecordDuration(ctx, 30*time.Millisecond)
	histogram.Record(ctx, 0.5)

	gauge, err := NewGauge(meter, "queue_depth", "Depth", "{item}")
	require.NoError(t, err)
	gauge.Record(ctx, 3)
	gauge.Record(ctx, 7)

	rm := collect(t, reader)
	assert.Equal(t, int64(5), sumWith(t, rm, "events_total", AttrOutcome.String("a")))
	assert.Equal(t, int64(1), sumWith(t, rm, "events_total", AttrOutcome.String("b")))

	hist, ok := findMetric(rm, "latency_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, HTTPDurationBuckets, hist.DataPoints[0].Bounds)

	g, ok := findMetric(rm, "queue_depth").Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}

package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingExporter keeps exported log records in memory
type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	bodies := make([]string, len(e.records))
	for i, r := range e.records {
		bodies[i] = r.Body().AsString()
	}
	return bodies
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base))
	assert.Equal(t, zapcore.NewNopCore(), NewZapOTELCore(lp, zapcore.InfoLevel))
}

func TestNewLoggerProvider_Enabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "crm-test",
		Insecure:          true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, lp.IsEnabled())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = lp.Shutdown(cancelled)
}

func TestLogsConfigFromApp(t *testing.T) {
	cfg := LogsConfigFromApp(config.TelemetryConfig{
		LogsEnabled:       true,
		CollectorEndpoint: "otel:4317",
		ServiceName:       "crm-backend",
	})

	assert.Equal(t, LogsConfig{Enabled: true, CollectorEndpoint: "otel:4317", ServiceName: "crm-backend"}, cfg)
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exporter := &recordingExporter{}
	lp := NewLoggerProviderWithProcessor(sdklog.NewSimpleProcessor(exporter), "crm-test", zap.NewNop())
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, local := observer.New(zapcore.InfoLevel)
	logger := lp.Bridge(zap.New(core))

	logger.Debug("Below the base level")
	logger.Info("Customer created", zap.Int64("customer_id", 7))
	logger.Warn("Invalid password attempt")

	assert.Equal(t, 2, local.Len())
	assert.Equal(t, []string{"Customer created", "Invalid password attempt"}, exporter.bodies())
}

func TestLevelFilterCore(t *testing.T) {
	exporter := &recordingExporter{}
	lp := NewLoggerProviderWithProcessor(sdklog.NewSimpleProcessor(exporter), "crm-test", zap.NewNop())
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	logger := zap.New(NewZapOTELCore(lp, zapcore.WarnLevel)).With(zap.String("component", "test"))
	logger.Info("dropped")
	logger.Error("kept")

	assert.Equal(t, []string{"kept"}, exporter.bodies())
}

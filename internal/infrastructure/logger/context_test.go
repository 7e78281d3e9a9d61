package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (zapcore.Core, *observer.ObservedLogs) {
	return observer.New(level)
}

func TestFromContext_Missing(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}

func TestWithRequestID(t *testing.T) {
	core, recorded := newObserved(zapcore.InfoLevel)

	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-42")
	l.Info("direct")
	L(ctx).Info("via context")

	assert.Equal(t, "req-42", GetRequestID(ctx))
	logs := recorded.All()
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	}
	// request_id must not be duplicated by L
	assert.Len(t, logs[1].Context, 1)
}

func TestContextLogger_WithLoggerAddsRequestID(t *testing.T) {
	core, recorded := newObserved(zapcore.DebugLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")

	WithLogger(ctx, zap.New(core)).With(zap.String("provider", "fedex")).Debug("token cached")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "fedex", fields["provider"])
}

func TestContextLogger_TraceCorrelation(t *testing.T) {
	core, recorded := newObserved(zapcore.InfoLevel)
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(WithContext(context.Background(), zap.New(core)), "op")
	L(ctx).Warn("provider failed")
	span.End()

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.With(zap.Int("n", 1)).Error("ignored")
		_ = cl.Zap()
	})
}

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds OTLP log export configuration.
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// LoggerProvider owns the SDK log provider when log export is enabled.
type LoggerProvider struct {
	sdk    *sdklog.LoggerProvider
	logger *zap.Logger
	cfg    LogsConfig
}

// NewLoggerProvider ships log records to the collector over OTLP gRPC and
// installs the provider globally.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lp := &LoggerProvider{logger: logger, cfg: cfg}
	if !cfg.Enabled {
		logger.Info("Log export disabled")
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := serviceResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	lp.sdk = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp.sdk)

	logger.Info("Log export enabled",
		zap.String("collector", cfg.CollectorEndpoint),
		zap.String("service", cfg.ServiceName),
	)
	return lp, nil
}

// Bridge returns l with every entry it writes also sent to the collector.
// Entries below l's own level are not exported. A disabled provider returns l.
func (lp *LoggerProvider) Bridge(l *zap.Logger) *zap.Logger {
	if lp.sdk == nil {
		return l
	}
	otelCore := otelzap.NewCore(lp.cfg.ServiceName, otelzap.WithLoggerProvider(lp.sdk))
	return l.WithOptions(zap.WrapCore(func(base zapcore.Core) zapcore.Core {
		return zapcore.NewTee(base, &levelGate{Core: otelCore, min: zapcore.LevelOf(base)})
	}))
}

// IsEnabled reports whether log records are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.sdk != nil
}

// ForceFlush exports buffered records
func (lp *LoggerProvider) ForceFlush(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return lp.sdk.ForceFlush(ctx)
}

// Shutdown flushes and stops the exporter
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return shutdownProvider(ctx, "logger", lp.sdk.Shutdown, lp.logger)
}

// levelGate keeps the OTLP core at the same threshold as the console core.
// otelzap's core otherwise accepts everything down to debug.
type levelGate struct {
	zapcore.Core
	min zapcore.Level
}

func (g *levelGate) Enabled(lvl zapcore.Level) bool {
	return lvl >= g.min && g.Core.Enabled(lvl)
}

func (g *levelGate) With(fields []zapcore.Field) zapcore.Core {
	return &levelGate{Core: g.Core.With(fields), min: g.min}
}

func (g *levelGate) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !g.Enabled(entry.Level) {
		return ce
	}
	return g.Core.Check(entry, ce)
}

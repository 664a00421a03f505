package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry instruments one pipeline run with a span per stage and a
// counter/duration metric per stage, grounded on the teacher's
// pkg/observability provider shape (Provider holding a TracerProvider,
// MeterProvider, and a handful of named instruments). The teacher's own
// provider wires an OTLP gRPC exporter; that exporter package is outside
// this repo's trimmed dependency set (see DESIGN.md), so the default and
// only exporter here is the SDK's in-process no-op path: spans and metrics
// are still created and recorded against a real TracerProvider/
// MeterProvider, they are just never shipped off-box. A future
// --otel-exporter=otlp flag is a constructor option away.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter

	stageDuration metric.Float64Histogram
	stageRecords  metric.Int64Counter
}

// NewTelemetry constructs the tracer/meter pair for serviceName and
// registers them as the process-global otel providers.
func NewTelemetry(serviceName string) (*Telemetry, error) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider()
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	t := &Telemetry{
		tracerProvider: tp,
		meterProvider:  mp,
		tracer:         tp.Tracer(serviceName),
		meter:          mp.Meter(serviceName),
	}

	var err error
	t.stageDuration, err = t.meter.Float64Histogram(
		"srdedupe.stage.duration_seconds",
		metric.WithDescription("wall-clock duration of one pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	t.stageRecords, err = t.meter.Int64Counter(
		"srdedupe.stage.records_processed",
		metric.WithDescription("records processed by one pipeline stage"),
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// StartStage opens a span named after stage, to be ended by the caller.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, stage)
}

// RecordStage records one stage's duration and processed-record count.
func (t *Telemetry) RecordStage(ctx context.Context, stage string, duration time.Duration, records int) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	t.stageDuration.Record(ctx, duration.Seconds(), attrs)
	t.stageRecords.Add(ctx, int64(records), attrs)
}

// Shutdown flushes and releases both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return t.meterProvider.Shutdown(ctx)
}

// Package observability wires OpenTelemetry tracing and metrics around
// notification dispatch.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mallinanga/nanga-notifications/config"
)

const scopeName = "nanga-notifications"

// Telemetry provides tracing and metrics for the dispatch core
type Telemetry struct {
	config        *config.TelemetryConfig
	tracer        trace.Tracer
	meter         metric.Meter
	traceProvider *sdktrace.TracerProvider

	// Metrics
	dispatches   metric.Int64Counter
	sent         metric.Int64Counter
	skipped      metric.Int64Counter
	failed       metric.Int64Counter
	sendDuration metric.Float64Histogram
}

// New creates a telemetry provider. A nil or disabled config yields a usable
// no-op provider.
func New(cfg *config.TelemetryConfig) (*Telemetry, error) {
	if cfg == nil {
		cfg = &config.TelemetryConfig{Enabled: false}
	}

	t := &Telemetry{config: cfg}

	if !cfg.Enabled {
		t.tracer = otel.Tracer(scopeName)
		t.meter = otel.Meter(scopeName)
		return t, nil
	}

	if err := t.initTracing(); err != nil {
		return nil, fmt.Errorf("init tracing: %v", err)
	}
	if err := t.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %v", err)
	}
	return t, nil
}

// initTracing initializes the OTLP trace pipeline
func (t *Telemetry) initTracing() error {
	serviceName := t.config.ServiceName
	if serviceName == "" {
		serviceName = scopeName
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(t.config.ServiceVersion),
			semconv.DeploymentEnvironment(t.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("create resource: %v", err)
	}

	exporter, err := otlptrace.New(context.Background(),
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(t.config.OTLPEndpoint),
		),
	)
	if err != nil {
		return fmt.Errorf("create exporter: %v", err)
	}

	sampleRate := t.config.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	t.traceProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(sampleRate)),
	)

	otel.SetTracerProvider(t.traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.tracer = otel.Tracer(scopeName)
	return nil
}

// initMetrics creates the dispatch instruments
func (t *Telemetry) initMetrics() error {
	t.meter = otel.Meter(scopeName)

	var err error
	if t.dispatches, err = t.meter.Int64Counter("nanga.dispatches",
		metric.WithDescription("Total dispatch attempts")); err != nil {
		return err
	}
	if t.sent, err = t.meter.Int64Counter("nanga.sent",
		metric.WithDescription("Notifications accepted by the provider")); err != nil {
		return err
	}
	if t.skipped, err = t.meter.Int64Counter("nanga.skipped",
		metric.WithDescription("Dispatches skipped (already sent, disabled, debug)")); err != nil {
		return err
	}
	if t.failed, err = t.meter.Int64Counter("nanga.failed",
		metric.WithDescription("Dispatches that failed")); err != nil {
		return err
	}
	if t.sendDuration, err = t.meter.Float64Histogram("nanga.send_duration_ms",
		metric.WithDescription("Provider send duration in milliseconds")); err != nil {
		return err
	}
	return nil
}

// StartDispatch opens a span for one dispatch call
func (t *Telemetry) StartDispatch(ctx context.Context, contentID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "nanga.dispatch",
		trace.WithAttributes(attribute.String("content.id", contentID)),
	)
}

// RecordResult closes out a dispatch span and updates the counters
func (t *Telemetry) RecordResult(ctx context.Context, span trace.Span, status string, providerStatus int, recipients int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))

	if t.dispatches != nil {
		t.dispatches.Add(ctx, 1, attrs)
	}
	switch status {
	case "sent":
		if t.sent != nil {
			t.sent.Add(ctx, 1)
		}
	case "skipped":
		if t.skipped != nil {
			t.skipped.Add(ctx, 1)
		}
	case "failed":
		if t.failed != nil {
			t.failed.Add(ctx, 1)
		}
	}
	if t.sendDuration != nil {
		t.sendDuration.Record(ctx, float64(elapsed.Nanoseconds())/1e6, attrs)
	}

	span.SetAttributes(
		attribute.String("dispatch.status", status),
		attribute.Int("dispatch.recipients", recipients),
	)
	if providerStatus != 0 {
		span.SetAttributes(attribute.Int("provider.status", providerStatus))
	}
	if status == "failed" {
		span.SetStatus(codes.Error, "dispatch failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Shutdown flushes and stops the trace pipeline
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.traceProvider == nil {
		return nil
	}
	return t.traceProvider.Shutdown(ctx)
}

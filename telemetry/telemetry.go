// Package telemetry installs the global OpenTelemetry tracer and meter
// providers, exporting spans over OTLP/gRPC and metrics over OTLP/HTTP.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceVersion = "0.1.0"

type Config struct {
	ServiceName    string
	SampleRatio    float64
	ExportInterval time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		ServiceName:    "ringbuf",
		SampleRatio:    0.05,
		ExportInterval: time.Second,
	}
}

// Providers holds the installed providers so they can be shut down.
type Providers struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init creates the exporters and sets the global providers.
// The exporter endpoints are read from the standard OTEL_EXPORTER_OTLP_* variables.
func Init(ctx context.Context, cfg *Config) (*Providers, error) {
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	traceExporter, err := newTraceExporter(ctx)
	if err != nil {
		return nil, err
	}

	meterExporter, err := newMeterExporter(ctx)
	if err != nil {
		return nil, errors.Join(err, traceExporter.Shutdown(ctx))
	}

	p := &Providers{
		tracerProvider: newTraceProvider(res, traceExporter, cfg.SampleRatio),
		meterProvider:  newMeterProvider(res, meterExporter, cfg.ExportInterval),
	}

	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetMeterProvider(p.meterProvider)

	return p, nil
}

// Close flushes and shuts down both providers.
func (p *Providers) Close(ctx context.Context) error {
	return errors.Join(
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
	)
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
}

func newTraceExporter(ctx context.Context) (*otlptrace.Exporter, error) {
	return otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure())
}

func newTraceProvider(res *resource.Resource, exporter sdktrace.SpanExporter, ratio float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(ratio)),
	)
}

func newMeterExporter(ctx context.Context) (*otlpmetrichttp.Exporter, error) {
	return otlpmetrichttp.New(ctx, otlpmetrichttp.WithInsecure())
}

func newMeterProvider(res *resource.Resource, exporter sdkmetric.Exporter, interval time.Duration) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)),
		),
	)
}

package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// Tracer returns a named tracer from the global provider, it is a no-op
// until Setup installs an exporting provider.
func Tracer(name string) oteltrace.Tracer {
	return otel.Tracer(name)
}

var meter = otel.Meter("omnivox.lib.telemetry")
var countGauge, _ = meter.Int64Gauge("report_count")

func recordCount(id string, count int64) {
	countGauge.Record(
		context.Background(), count,
		otelmetric.WithAttributes(attribute.String("id", id)),
	)
}

// Setup installs otlp trace and metric providers for whichever of the two
// has an endpoint configured, signals without an endpoint stay no-op.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	var tel Telemetry
	if config.Otlp.Traces.transport() == transportNone &&
		config.Otlp.Metrics.transport() == transportNone {
		return tel, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return tel, err
	}

	tel.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
	if err != nil {
		return tel, err
	}
	if tel.TracerProvider != nil {
		otel.SetTracerProvider(tel.TracerProvider)
	}

	tel.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
	if err != nil {
		return tel, err
	}
	if tel.MeterProvider != nil {
		otel.SetMeterProvider(tel.MeterProvider)
	}

	return tel, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// instrumentationName identifies spans produced by this service
	instrumentationName = "github.com/upb/secure-access-gateway"

	// serviceName is reported as service.name on exported spans
	serviceName = "secure-access-gateway"
)

// ShutdownFunc flushes and stops a tracer provider
type ShutdownFunc func(ctx context.Context) error

// Tracer returns the tracer for a component. It resolves against the global
// provider installed by InitTracing.
func Tracer(component string) trace.Tracer {
	if component == "" {
		return otel.Tracer(instrumentationName)
	}
	return otel.Tracer(instrumentationName + "/" + component)
}

// InitTracing installs the global tracer provider. When enabled, spans are
// batched and written as JSON to w. When disabled, a no-op provider is
// installed and the returned ShutdownFunc does nothing.
func InitTracing(enabled bool, w io.Writer) (ShutdownFunc, error) {
	if !enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

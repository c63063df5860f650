// Package telemetry wires OpenTelemetry tracing to an OTLP endpoint.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/regenrek/peakydash/internal/identity"
)

const (
	EnvEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvTracesEndpoint = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	EnvServiceName    = "OTEL_SERVICE_NAME"
)

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

// Enabled reports whether an OTLP endpoint is configured.
func Enabled() bool {
	return strings.TrimSpace(os.Getenv(EnvEndpoint)) != "" || strings.TrimSpace(os.Getenv(EnvTracesEndpoint)) != ""
}

// Setup installs a global tracer provider exporting over OTLP/HTTP when an
// endpoint is configured. Without one, spans go to the no-op provider and the
// returned Shutdown does nothing. Exporter settings come from the standard
// OTEL_EXPORTER_OTLP_* variables.
func Setup(ctx context.Context, version string) (Shutdown, error) {
	if !Enabled() {
		return func(context.Context) error { return nil }, nil
	}
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create otlp exporter: %w", err)
	}
	serviceName := strings.TrimSpace(os.Getenv(EnvServiceName))
	if serviceName == "" {
		serviceName = identity.AppSlug
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

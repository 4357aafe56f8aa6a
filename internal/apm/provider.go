package apm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/flashloan-bot/internal/logger"
)

// Exporter names a span export backend.
type Exporter string

const (
	ExporterZipkin    Exporter = "zipkin"
	ExporterNewRelic  Exporter = "newrelic"
	ExporterHoneycomb Exporter = "honeycomb"
	ExporterConsole   Exporter = "console"
	ExporterNone      Exporter = "none"
)

// ParseExporter maps a config value onto an Exporter. Unknown names disable
// export.
func ParseExporter(s string) Exporter {
	switch e := Exporter(strings.ToLower(strings.TrimSpace(s))); e {
	case ExporterZipkin, ExporterNewRelic, ExporterHoneycomb, ExporterConsole:
		return e
	default:
		return ExporterNone
	}
}

// Config selects and addresses the span exporter.
type Config struct {
	ServiceName string
	Exporter    Exporter
	Endpoint    string
	// Headers is a comma separated list of key=value pairs.
	Headers string
	// Protocol is "grpc" (default) or "http/protobuf" for OTLP exporters.
	Protocol string
}

// TraceProvider flushes and releases the exporter.
type TraceProvider interface {
	Stop() error
}

type noopProvider struct{}

func (noopProvider) Stop() error { return nil }

// NewEmptyTraceProvider leaves the global no-op tracer in place.
func NewEmptyTraceProvider() TraceProvider { return noopProvider{} }

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTraceProvider builds the configured exporter and installs it as the
// global tracer provider. ExporterNone returns a provider that does nothing.
func NewTraceProvider(ctx context.Context, log logger.LoggerInterface, cfg Config) (TraceProvider, error) {
	if cfg.Exporter == ExporterNone || cfg.Exporter == "" {
		log.Warn(ctx, "trace export disabled")
		return NewEmptyTraceProvider(), nil
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s exporter: %w", cfg.Exporter, err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "flashloan-bot"
	}
	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("otel.provider", string(cfg.Exporter)),
		))
	if err != nil {
		// Schema URL conflicts still yield a usable resource.
		log.Warn(ctx, "trace resource merge", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{tp: tp}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	headers, err := parseHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}

	switch cfg.Exporter {
	case ExporterConsole:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterZipkin:
		return zipkin.New(cfg.Endpoint)
	case ExporterNewRelic, ExporterHoneycomb:
		if len(headers) == 0 {
			return nil, fmt.Errorf("missing api key header")
		}
		if cfg.Protocol == "http/protobuf" {
			return otlptracehttp.New(ctx,
				otlptracehttp.WithEndpointURL(cfg.Endpoint),
				otlptracehttp.WithHeaders(headers),
			)
		}
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(cfg.Endpoint),
			otlptracegrpc.WithHeaders(headers),
		)
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

// parseHeaders reads "k1=v1,k2=v2" as used by OTEL_EXPORTER_OTLP_HEADERS.
func parseHeaders(s string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", pair)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.tp.Shutdown(ctx)
}

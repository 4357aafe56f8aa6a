package apm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fd1az/flashloan-bot/internal/logger"
)

func recordingTracer(t *testing.T) (*openTracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return &openTracer{tracer: tp.Tracer("test")}, rec
}

func TestSpanRecordsAttributesAndError(t *testing.T) {
	tracer, rec := recordingTracer(t)

	ctx, span := tracer.StartSpanFromContext(context.Background(), "arbitrage.pair")
	span.SetAttributes(attribute.String("pair", "USDC.e/USDT"), attribute.Int("tick", 3))
	span.NoticeError(errors.New("quote failed"))
	span.NoticeError(nil)
	span.End()

	assert.NotEmpty(t, TraceID(ctx))

	ended := rec.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "arbitrage.pair", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "quote failed", got.Status().Description)
	assert.Contains(t, got.Attributes(), attribute.String("pair", "USDC.e/USDT"))
	assert.Len(t, got.Events(), 1, "nil errors are not recorded")
}

func TestTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestParseExporter(t *testing.T) {
	tests := []struct {
		in   string
		want Exporter
	}{
		{"zipkin", ExporterZipkin},
		{" Honeycomb ", ExporterHoneycomb},
		{"NEWRELIC", ExporterNewRelic},
		{"console", ExporterConsole},
		{"jaeger", ExporterNone},
		{"", ExporterNone},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseExporter(tt.in))
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders("x-honeycomb-team=abc, x-honeycomb-dataset=bot")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"x-honeycomb-team":    "abc",
		"x-honeycomb-dataset": "bot",
	}, got)

	got, err = parseHeaders("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseHeaders("api-key")
	assert.ErrorContains(t, err, "expected key=value")
}

func TestNewTraceProviderDisabled(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), logger.Discard(), Config{Exporter: ExporterNone})
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}

func TestNewTraceProviderRejectsMissingKey(t *testing.T) {
	_, err := NewTraceProvider(context.Background(), logger.Discard(), Config{
		Exporter: ExporterHoneycomb,
		Endpoint: "https://api.honeycomb.io",
	})
	assert.ErrorContains(t, err, "missing api key header")
}

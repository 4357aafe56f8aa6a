package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	tracerName = "github.com/fd1az/flashloan-bot/business/arbitrage/app"
	meterName  = "github.com/fd1az/flashloan-bot/business/arbitrage"
)

// botMetrics holds OTEL metric instruments for the control loop.
type botMetrics struct {
	ticks          metric.Int64Counter
	denials        metric.Int64Counter
	trades         metric.Int64Counter
	failures       metric.Int64Gauge
	detectDuration metric.Float64Histogram
}

func newBotMetrics() (*botMetrics, error) {
	meter := otel.Meter(meterName)
	m := &botMetrics{}
	var err error

	m.ticks, err = meter.Int64Counter(
		"bot_ticks_total",
		metric.WithDescription("Control loop iterations"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	m.denials, err = meter.Int64Counter(
		"bot_gate_denials_total",
		metric.WithDescription("Execution gate denials by reason"),
		metric.WithUnit("{denial}"),
	)
	if err != nil {
		return nil, err
	}

	m.trades, err = meter.Int64Counter(
		"bot_trades_total",
		metric.WithDescription("Ledger records written by status"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return nil, err
	}

	m.failures, err = meter.Int64Gauge(
		"bot_failure_count",
		metric.WithDescription("Consecutive failures since the last success"),
	)
	if err != nil {
		return nil, err
	}

	m.detectDuration, err = meter.Float64Histogram(
		"bot_detect_duration_seconds",
		metric.WithDescription("Opportunity detection latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Package binance derives a market volatility figure from Binance spot data.
package binance

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/markcheno/go-talib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-bot/business/pricing/app"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/cache"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// Volatility methods.
const (
	MethodTicker   = "ticker"
	MethodRealized = "realized"
)

var _ app.VolatilityFeed = (*Feed)(nil)

// FeedConfig holds configuration for the volatility feed.
type FeedConfig struct {
	Method   string
	Symbol   string // e.g. "ETHUSDT"
	Interval string // kline interval for the realized method
	Window   int    // number of returns in the realized window
	BaseURL  string // REST base URL (empty = default)
	CacheTTL time.Duration
}

// marketData is the slice of the Binance REST API the feed reads.
type marketData interface {
	priceChangePercent(ctx context.Context, symbol string) (string, error)
	closes(ctx context.Context, symbol, interval string, limit int) ([]string, error)
}

// Feed implements VolatilityFeed. Values are cached briefly since the oracle is
// consulted once per iteration but klines only move once per interval.
type Feed struct {
	cfg    FeedConfig
	market marketData
	cache  *cache.Cache[string, float64]
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewFeed creates a volatility feed backed by the public Binance REST API.
func NewFeed(cfg FeedConfig, log logger.LoggerInterface) *Feed {
	client := gobinance.NewClient("", "")
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	return newFeed(cfg, &restMarket{client: client}, log)
}

func newFeed(cfg FeedConfig, market marketData, log logger.LoggerInterface) *Feed {
	if cfg.Window < 2 {
		cfg.Window = 24
	}
	if cfg.Interval == "" {
		cfg.Interval = "1h"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &Feed{
		cfg:    cfg,
		market: market,
		cache:  cache.New[string, float64](5 * time.Minute),
		logger: log,
		tracer: otel.Tracer("binance"),
	}
}

// Volatility returns the configured volatility figure in percent.
func (f *Feed) Volatility(ctx context.Context) (float64, error) {
	key := f.cfg.Method + ":" + f.cfg.Symbol
	if v, ok := f.cache.Get(ctx, key); ok {
		return v, nil
	}

	ctx, span := f.tracer.Start(ctx, "binance.volatility",
		trace.WithAttributes(
			attribute.String("symbol", f.cfg.Symbol),
			attribute.String("method", f.cfg.Method),
		),
	)
	defer span.End()

	var (
		v   float64
		err error
	)
	switch f.cfg.Method {
	case MethodRealized:
		v, err = f.realized(ctx)
	default:
		v, err = f.ticker(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	span.SetAttributes(attribute.Float64("volatility", v))
	f.cache.Set(ctx, key, v, f.cfg.CacheTTL)
	f.logger.Debug(ctx, "volatility updated", "symbol", f.cfg.Symbol, "method", f.cfg.Method, "value", v)
	return v, nil
}

// Close releases the cache sweeper.
func (f *Feed) Close() {
	f.cache.Close()
}

// ticker uses the absolute 24h price change.
func (f *Feed) ticker(ctx context.Context) (float64, error) {
	raw, err := f.market.priceChangePercent(ctx, f.cfg.Symbol)
	if err != nil {
		return 0, unavailable(f.cfg.Symbol, err)
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, unavailable(f.cfg.Symbol, fmt.Errorf("priceChangePercent %q: %w", raw, err))
	}
	return math.Abs(pct), nil
}

// realized is the standard deviation of close-to-close log returns over the
// window, in percent.
func (f *Feed) realized(ctx context.Context) (float64, error) {
	raw, err := f.market.closes(ctx, f.cfg.Symbol, f.cfg.Interval, f.cfg.Window+1)
	if err != nil {
		return 0, unavailable(f.cfg.Symbol, err)
	}
	if len(raw) < f.cfg.Window+1 {
		return 0, unavailable(f.cfg.Symbol, fmt.Errorf("got %d closes, need %d", len(raw), f.cfg.Window+1))
	}

	closes := make([]float64, len(raw))
	for i, s := range raw {
		c, err := strconv.ParseFloat(s, 64)
		if err != nil || c <= 0 {
			return 0, unavailable(f.cfg.Symbol, fmt.Errorf("close %q", s))
		}
		closes[i] = c
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i] / closes[i-1])
	}

	std := talib.StdDev(returns, f.cfg.Window, 1)
	return std[len(std)-1] * 100, nil
}

func unavailable(symbol string, err error) error {
	return apperror.New(apperror.CodeVolatilityUnavailable,
		apperror.WithCause(err),
		apperror.WithContext(symbol))
}

// restMarket adapts the go-binance client.
type restMarket struct {
	client *gobinance.Client
}

func (m *restMarket) priceChangePercent(ctx context.Context, symbol string) (string, error) {
	stats, err := m.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "", fmt.Errorf("no 24h stats for %s", symbol)
	}
	return stats[0].PriceChangePercent, nil
}

func (m *restMarket) closes(ctx context.Context, symbol, interval string, limit int) ([]string, error) {
	klines, err := m.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(klines))
	for i, k := range klines {
		out[i] = k.Close
	}
	return out, nil
}

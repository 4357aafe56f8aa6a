package binance

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

type fakeMarket struct {
	change      string
	closeValues []string
	err         error
	calls       int
}

func (m *fakeMarket) priceChangePercent(context.Context, string) (string, error) {
	m.calls++
	return m.change, m.err
}

func (m *fakeMarket) closes(_ context.Context, _, _ string, limit int) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.closeValues) > limit {
		return m.closeValues[len(m.closeValues)-limit:], nil
	}
	return m.closeValues, nil
}

func TestTickerVolatilityIsAbsoluteChange(t *testing.T) {
	market := &fakeMarket{change: "-3.250"}
	feed := newFeed(FeedConfig{Method: MethodTicker, Symbol: "ETHUSDT"}, market, logger.Discard())
	defer feed.Close()

	v, err := feed.Volatility(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3.25 {
		t.Errorf("expected 3.25, got %v", v)
	}

	// second read is served from cache
	if _, err := feed.Volatility(context.Background()); err != nil {
		t.Fatal(err)
	}
	if market.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", market.calls)
	}
}

func TestRealizedVolatility(t *testing.T) {
	market := &fakeMarket{closeValues: []string{"100", "101", "100", "101", "100"}}
	feed := newFeed(FeedConfig{Method: MethodRealized, Symbol: "ETHUSDT", Window: 4}, market, logger.Discard())
	defer feed.Close()

	v, err := feed.Volatility(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// alternating +x/-x log returns have a population std dev of x
	want := math.Abs(math.Log(101.0/100.0)) * 100
	if math.Abs(v-want) > 1e-6 {
		t.Errorf("expected %.6f, got %.6f", want, v)
	}
}

func TestRealizedVolatilityNeedsFullWindow(t *testing.T) {
	market := &fakeMarket{closeValues: []string{"100", "101"}}
	feed := newFeed(FeedConfig{Method: MethodRealized, Symbol: "ETHUSDT", Window: 4}, market, logger.Discard())
	defer feed.Close()

	_, err := feed.Volatility(context.Background())
	if apperror.GetCode(err) != apperror.CodeVolatilityUnavailable {
		t.Fatalf("expected volatility unavailable, got %v", err)
	}
}

func TestVolatilityUpstreamError(t *testing.T) {
	market := &fakeMarket{err: errors.New("connection refused")}
	feed := newFeed(FeedConfig{Method: MethodTicker, Symbol: "ETHUSDT"}, market, logger.Discard())
	defer feed.Close()

	_, err := feed.Volatility(context.Background())
	if !apperror.IsKind(err, apperror.KindTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

// Package uniswap quotes venues through V3-style QuoterV2 contracts.
package uniswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-bot/business/pricing/app"
	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/circuitbreaker"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

const (
	tracerName = "uniswap"
	meterName  = "uniswap"
)

// Ensure Provider implements QuoteProvider.
var _ app.QuoteProvider = (*Provider)(nil)

// ContractCaller is the read-only part of ethclient.Client used for quotes.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// providerMetrics holds OTEL metric instruments.
type providerMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Provider implements QuoteProvider against each venue's QuoterV2.
type Provider struct {
	client    ContractCaller
	quoterABI abi.ABI

	// one breaker per venue so a dead quoter does not block the other
	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker[[]byte]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider creates a new on-chain quote provider.
func NewProvider(client ContractCaller, log logger.LoggerInterface) (*Provider, error) {
	parsedABI, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	p := &Provider{
		client:    client,
		quoterABI: parsedABI,
		breakers:  make(map[string]*circuitbreaker.CircuitBreaker[[]byte]),
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "onchain" }

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.quotesTotal, err = meter.Int64Counter(
		"quoter_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteLatency, err = meter.Float64Histogram(
		"quoter_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.metrics.quoteErrors, err = meter.Int64Counter(
		"quoter_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	return err
}

func (p *Provider) breaker(venue string) *circuitbreaker.CircuitBreaker[[]byte] {
	p.mu.Lock()
	defer p.mu.Unlock()

	cb, ok := p.breakers[venue]
	if !ok {
		cb = circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("quoter-" + venue))
		p.breakers[venue] = cb
	}
	return cb
}

// Quote returns the best output across the venue's fee tiers.
func (p *Provider) Quote(ctx context.Context, pair domain.Pair, amount asset.Amount, venue domain.Venue) (domain.Quote, error) {
	venueAttr := attribute.String("venue", venue.Name)
	ctx, span := p.tracer.Start(ctx, "quoter.quote",
		trace.WithAttributes(
			venueAttr,
			attribute.String("pair", pair.String()),
			attribute.String("amount_in", amount.Raw().String()),
		),
	)
	defer span.End()

	if venue.Quoter == (common.Address{}) {
		span.SetStatus(codes.Error, "no quoter")
		return domain.Quote{}, apperror.New(apperror.CodeUnknownVenue,
			apperror.WithContext(venue.Name+" has no quoter address"))
	}

	start := time.Now()
	p.metrics.quotesTotal.Add(ctx, 1, metric.WithAttributes(venueAttr))

	feeTiers := venue.FeeTiers
	if len(feeTiers) == 0 {
		feeTiers = DefaultFeeTiers
	}

	var (
		best        *tierQuote
		bestFeeTier int
		lastErr     error
	)
	for _, feeTier := range feeTiers {
		result, err := p.quoteFeeTier(ctx, venue, pair, amount.Raw(), feeTier)
		if err != nil {
			lastErr = err
			span.AddEvent("fee_tier_failed",
				trace.WithAttributes(
					attribute.Int("fee_tier", feeTier),
					attribute.String("error", err.Error()),
				),
			)
			continue
		}
		if best == nil || result.AmountOut.Cmp(best.AmountOut) > 0 {
			best = result
			bestFeeTier = feeTier
		}
	}

	p.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(venueAttr))

	if best == nil {
		p.metrics.quoteErrors.Add(ctx, 1, metric.WithAttributes(venueAttr))
		span.SetStatus(codes.Error, "no valid quote")
		return domain.Quote{}, apperror.New(apperror.CodePoolNotFound,
			apperror.WithCause(lastErr),
			apperror.WithContext(fmt.Sprintf("%s on %s", pair, venue.Name)))
	}

	quote := domain.NewQuote(venue, pair, amount, asset.NewAmount(pair.Quote, best.AmountOut), bestFeeTier)

	span.SetAttributes(
		attribute.String("amount_out", best.AmountOut.String()),
		attribute.Int("fee_tier", bestFeeTier),
	)
	span.SetStatus(codes.Ok, "quote received")

	p.logger.Debug(ctx, "quoter quote",
		"venue", venue.Name,
		"pair", pair.String(),
		"amount_in", amount.Raw().String(),
		"amount_out", best.AmountOut.String(),
		"fee_tier", bestFeeTier,
	)

	return quote, nil
}

// quoteFeeTier calls QuoterV2.quoteExactInputSingle for a specific fee tier.
func (p *Provider) quoteFeeTier(ctx context.Context, venue domain.Venue, pair domain.Pair, amountIn *big.Int, feeTier int) (*tierQuote, error) {
	callData, err := p.quoterABI.Pack("quoteExactInputSingle", quoteParams{
		TokenIn:           pair.Base.Address(),
		TokenOut:          pair.Quote.Address(),
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	quoter := venue.Quoter
	raw, err := p.breaker(venue.Name).Execute(func() ([]byte, error) {
		return p.client.CallContract(ctx, ethereum.CallMsg{
			To:   &quoter,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quoter call failed for fee tier %d", feeTier)))
	}

	outputs, err := p.quoterABI.Unpack("quoteExactInputSingle", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if len(outputs) < 4 {
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	return &tierQuote{
		AmountOut:               outputs[0].(*big.Int),
		SqrtPriceX96After:       outputs[1].(*big.Int),
		InitializedTicksCrossed: outputs[2].(uint32),
		GasEstimate:             outputs[3].(*big.Int),
	}, nil
}

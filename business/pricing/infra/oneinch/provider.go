// Package oneinch quotes venues through the 1inch aggregator, restricting
// each request to the venue's protocol.
package oneinch

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/fd1az/flashloan-bot/business/pricing/app"
	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/httpclient"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/ratelimit"
)

var _ app.QuoteProvider = (*Provider)(nil)

// Config holds the aggregator settings.
type Config struct {
	BaseURL           string
	APIKey            string
	ChainID           uint64
	RequestsPerMinute int
	Timeout           time.Duration
}

// quoteResponse is the subset of the v5 quote payload we read.
type quoteResponse struct {
	ToTokenAmount string `json:"toTokenAmount"`
	EstimatedGas  int64  `json:"estimatedGas"`
}

type errorResponse struct {
	Description string `json:"description"`
}

// Provider implements QuoteProvider with the 1inch quote endpoint.
type Provider struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	chainID uint64
	logger  logger.LoggerInterface
}

// NewProvider creates a 1inch provider.
func NewProvider(cfg Config, log logger.LoggerInterface) (*Provider, error) {
	headers := map[string]string{"Accept": "application/json"}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	opts := []httpclient.ClientOption{
		httpclient.WithProviderName("oneinch"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithHeaders(headers),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithRequestTimeout(cfg.Timeout))
	}

	client, err := httpclient.NewInstrumentedClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create 1inch client: %w", err)
	}

	return &Provider{
		client:  client,
		limiter: ratelimit.New("oneinch", cfg.RequestsPerMinute),
		chainID: cfg.ChainID,
		logger:  log,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return "oneinch" }

// Quote requests amount of Pair.Base -> Pair.Quote routed only through the
// venue's protocol.
func (p *Provider) Quote(ctx context.Context, pair domain.Pair, amount asset.Amount, venue domain.Venue) (domain.Quote, error) {
	if venue.Protocol == "" {
		return domain.Quote{}, apperror.New(apperror.CodeUnknownVenue,
			apperror.WithContext(venue.Name+" has no aggregator protocol"))
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, err
	}

	var result quoteResponse
	req := p.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("venue", venue.Name)),
		httpclient.WithResponseErrorHandler(handleError),
	).
		SetQueryParam("fromTokenAddress", pair.Base.Address().Hex()).
		SetQueryParam("toTokenAddress", pair.Quote.Address().Hex()).
		SetQueryParam("amount", amount.Raw().String()).
		SetQueryParam("protocols", venue.Protocol).
		SetResult(&result)

	if _, err := req.Get(ctx, fmt.Sprintf("/v5.0/%d/quote", p.chainID)); err != nil {
		if apperror.IsAppError(err) {
			return domain.Quote{}, err
		}
		return domain.Quote{}, apperror.New(apperror.CodeTransientNetwork,
			apperror.WithCause(err),
			apperror.WithContext("1inch quote "+venue.Name))
	}

	out, ok := new(big.Int).SetString(result.ToTokenAmount, 10)
	if !ok {
		return domain.Quote{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("toTokenAmount %q from %s", result.ToTokenAmount, venue.Name)))
	}

	p.logger.Debug(ctx, "1inch quote",
		"venue", venue.Name,
		"pair", pair.String(),
		"amount_in", amount.Raw().String(),
		"amount_out", out.String(),
	)

	return domain.NewQuote(venue, pair, amount, asset.NewAmount(pair.Quote, out), 0), nil
}

func handleError(status int, body []byte) error {
	if status < 400 {
		return nil
	}
	code := apperror.CodeQuoteProviderError
	if status == 429 {
		code = apperror.CodeRateLimitExceeded
	}
	detail := truncate(body, 200)
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Description != "" {
		detail = e.Description
	}
	return apperror.New(code,
		apperror.WithContext(fmt.Sprintf("1inch status %d: %s", status, detail)))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

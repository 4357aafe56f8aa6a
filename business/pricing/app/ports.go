// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/asset"
)

// QuoteProvider returns the output amount of Pair.Quote obtained by swapping
// amount of Pair.Base on one venue.
type QuoteProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Quote asks venue for a fresh quote. Implementations must not cache.
	Quote(ctx context.Context, pair domain.Pair, amount asset.Amount, venue domain.Venue) (domain.Quote, error)
}

// VolatilityFeed reports a recent market volatility figure in percent.
type VolatilityFeed interface {
	Volatility(ctx context.Context) (float64, error)
}

// PairSource lists the pairs scanned each iteration.
type PairSource interface {
	Pairs(ctx context.Context) ([]domain.Pair, error)
}

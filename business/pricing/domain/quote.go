package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-bot/internal/asset"
)

// Quote is a point-in-time conversion of AmountIn of Pair.Base into
// Pair.Quote on one venue. Quotes are never cached.
type Quote struct {
	Venue     Venue
	Pair      Pair
	AmountIn  asset.Amount
	AmountOut asset.Amount
	FeeTier   int // hundredths of a bip, 0 when the provider does not report it
	Timestamp time.Time
}

// NewQuote creates a quote stamped with the current time.
func NewQuote(venue Venue, pair Pair, amountIn, amountOut asset.Amount, feeTier int) Quote {
	return Quote{
		Venue:     venue,
		Pair:      pair,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		FeeTier:   feeTier,
		Timestamp: time.Now(),
	}
}

// Converted returns the output amount in display units.
func (q Quote) Converted() decimal.Decimal {
	return q.AmountOut.ToDecimal()
}

// FeeTierPercent returns the fee tier as a percentage string (e.g., "0.30%").
func (q Quote) FeeTierPercent() string {
	percent := float64(q.FeeTier) / 10000.0
	return fmt.Sprintf("%.2f%%", percent)
}

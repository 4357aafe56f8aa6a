// Package domain contains the core domain types for the pricing context.
package domain

import (
	"github.com/fd1az/flashloan-bot/internal/asset"
)

// Pair is a swap route: Base is the borrowed (source) asset, Quote the
// intermediate asset the first leg swaps into.
type Pair struct {
	Base  *asset.Asset
	Quote *asset.Asset
}

// NewPair creates a new token pair.
func NewPair(base, quote *asset.Asset) Pair {
	if base == nil || quote == nil {
		panic("pricing: nil asset in pair")
	}
	return Pair{Base: base, Quote: quote}
}

// String returns the pair symbol (e.g., "USDC/USDT").
func (p Pair) String() string {
	return p.Base.Symbol() + "/" + p.Quote.Symbol()
}

// Invert returns the reverse route.
func (p Pair) Invert() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

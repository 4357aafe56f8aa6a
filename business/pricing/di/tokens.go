// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/flashloan-bot/business/pricing/app"
	"github.com/fd1az/flashloan-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
	VolatilityFeed = di.NewToken[app.VolatilityFeed]("pricing.VolatilityFeed")
)

// Private dependency tokens - internal to pricing module
var (
	QuoteProvider = di.NewToken[app.QuoteProvider]("pricing:quoteProvider")
	PairSource    = di.NewToken[app.PairSource]("pricing:pairSource")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetVolatilityFeed(c di.ServiceRegistry) app.VolatilityFeed {
	return di.GetToken(c, VolatilityFeed)
}

func GetQuoteProvider(c di.ServiceRegistry) app.QuoteProvider {
	return di.GetToken(c, QuoteProvider)
}

func GetPairSource(c di.ServiceRegistry) app.PairSource {
	return di.GetToken(c, PairSource)
}

// Package pricing implements the pricing bounded context: token pairs, venue
// quotes and the volatility feed.
package pricing

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/flashloan-bot/business/pricing/app"
	pricingDI "github.com/fd1az/flashloan-bot/business/pricing/di"
	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/business/pricing/infra/binance"
	"github.com/fd1az/flashloan-bot/business/pricing/infra/oneinch"
	"github.com/fd1az/flashloan-bot/business/pricing/infra/pairs"
	"github.com/fd1az/flashloan-bot/business/pricing/infra/uniswap"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Quote provider - private dependency
	di.RegisterToken(c, pricingDI.QuoteProvider, func(sr di.ServiceRegistry) app.QuoteProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Quotes.Provider == config.QuoteProviderOneInch {
			provider, err := oneinch.NewProvider(oneinch.Config{
				BaseURL:           cfg.Quotes.OneInch.BaseURL,
				APIKey:            cfg.Quotes.OneInch.APIKey,
				ChainID:           cfg.Ethereum.ChainID,
				RequestsPerMinute: cfg.Quotes.OneInch.RequestsPerMinute,
				Timeout:           cfg.Bot.CallTimeout,
			}, log)
			if err != nil {
				panic("failed to create 1inch provider: " + err.Error())
			}
			return provider
		}

		ethClient := sr.Get("ethClient").(*ethclient.Client)
		provider, err := uniswap.NewProvider(ethClient, log)
		if err != nil {
			panic("failed to create quoter provider: " + err.Error())
		}
		return provider
	})

	// Pair source - private dependency
	di.RegisterToken(c, pricingDI.PairSource, func(sr di.ServiceRegistry) app.PairSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		src, err := pairs.Load(context.Background(), pairs.Config{
			ChainID:      cfg.Ethereum.ChainID,
			Asset:        cfg.Bot.Asset,
			Intermediate: cfg.Bot.Intermediate,
			Decimals:     uint8(cfg.Bot.AssetDecimals),
			Pairs:        cfg.Bot.Pairs,
			File:         cfg.Bot.PairsFile,
		}, registry, log)
		if err != nil {
			panic("failed to load token pairs: " + err.Error())
		}
		return src
	})

	// Volatility feed (public - used by prediction features)
	di.RegisterToken(c, pricingDI.VolatilityFeed, func(sr di.ServiceRegistry) app.VolatilityFeed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return binance.NewFeed(binance.FeedConfig{
			Method:   cfg.Volatility.Method,
			Symbol:   cfg.Volatility.Symbol,
			Interval: cfg.Volatility.Interval,
			Window:   cfg.Volatility.Window,
			BaseURL:  cfg.Volatility.BaseURL,
		}, log)
	})

	// PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		svc, err := app.NewPricingService(
			pricingDI.GetQuoteProvider(sr),
			pricingDI.GetPairSource(sr),
			Venues(cfg.Quotes.Venues),
			cfg.Bot.CallTimeout,
			log,
		)
		if err != nil {
			panic("failed to create pricing service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup resolves the pricing services so configuration problems surface
// before the loop starts.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetPricingService(mono.Services())
	pairList, err := svc.Pairs(ctx)
	if err != nil {
		return fmt.Errorf("pricing: %w", err)
	}

	venues := svc.Venues()
	log.Info(ctx, "pricing module started",
		"provider", pricingDI.GetQuoteProvider(mono.Services()).Name(),
		"venues", venues[0].Name+","+venues[1].Name,
		"pairs", len(pairList),
	)
	return nil
}

// Venues converts venue configuration into domain venues.
func Venues(cfgs []config.VenueConfig) []domain.Venue {
	venues := make([]domain.Venue, 0, len(cfgs))
	for _, v := range cfgs {
		venues = append(venues, domain.Venue{
			Name:     v.Name,
			Selector: v.Selector,
			Quoter:   common.HexToAddress(v.QuoterAddress),
			Protocol: v.Protocol,
			FeeTiers: v.FeeTiers,
		})
	}
	return venues
}

// Package prediction implements the prediction bounded context: feature
// collection and the profit oracle.
package prediction

import (
	"context"

	blockchainDI "github.com/fd1az/flashloan-bot/business/blockchain/di"
	"github.com/fd1az/flashloan-bot/business/prediction/app"
	predictionDI "github.com/fd1az/flashloan-bot/business/prediction/di"
	"github.com/fd1az/flashloan-bot/business/prediction/infra/oracle"
	"github.com/fd1az/flashloan-bot/business/prediction/infra/sources"
	pricingDI "github.com/fd1az/flashloan-bot/business/pricing/di"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
)

// Module implements the prediction bounded context.
type Module struct{}

// RegisterServices registers all prediction services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, predictionDI.Oracle, func(sr di.ServiceRegistry) app.Oracle {
		cfg := sr.Get("config").(*config.Config)

		switch cfg.Oracle.Kind {
		case config.OracleHTTP:
			o, err := oracle.NewHTTP(cfg.Oracle.URL)
			if err != nil {
				panic("failed to create http oracle: " + err.Error())
			}
			return o
		case config.OracleExec:
			o, err := oracle.NewExec(cfg.Oracle.Command)
			if err != nil {
				panic("failed to create exec oracle: " + err.Error())
			}
			return o
		default:
			w := cfg.Oracle.Linear
			return oracle.NewLinear(oracle.Weights{
				Intercept:  w.Intercept,
				Amount:     w.Amount,
				Slippage:   w.Slippage,
				GasPrice:   w.GasPrice,
				Volatility: w.Volatility,
			})
		}
	})

	di.RegisterToken(c, predictionDI.PredictionService, func(sr di.ServiceRegistry) *app.PredictionService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		amount, _ := cfg.Bot.FlashloanAmountDecimal().Float64()
		return app.NewPredictionService(
			app.ServiceConfig{
				Amount:   amount,
				Slippage: cfg.Bot.MaxSlippagePercent,
				Timeout:  cfg.Bot.CallTimeout,
			},
			sources.NewGas(blockchainDI.GetGasOracle(sr)),
			pricingDI.GetVolatilityFeed(sr),
			predictionDI.GetOracle(sr),
			log,
		)
	})

	return nil
}

// Startup logs the active oracle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	if mono.Config().Bot.Strategy != config.StrategyPredictive {
		mono.Logger().Info(ctx, "prediction module idle", "strategy", mono.Config().Bot.Strategy)
		return nil
	}
	o := predictionDI.GetOracle(mono.Services())
	mono.Logger().Info(ctx, "prediction module started", "oracle", o.Name())
	return nil
}

// Package arbitrage implements the arbitrage bounded context: opportunity
// detection, the execution gate and the control loop.
package arbitrage

import (
	"context"

	"github.com/fd1az/flashloan-bot/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/flashloan-bot/business/arbitrage/di"
	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	"github.com/fd1az/flashloan-bot/business/arbitrage/infra"
	blockchainDI "github.com/fd1az/flashloan-bot/business/blockchain/di"
	ledgerDI "github.com/fd1az/flashloan-bot/business/ledger/di"
	predictionDI "github.com/fd1az/flashloan-bot/business/prediction/di"
	pricingDI "github.com/fd1az/flashloan-bot/business/pricing/di"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
	"github.com/fd1az/flashloan-bot/internal/notify"
)

// Module implements the arbitrage bounded context.
type Module struct {
	// TUI selects the dashboard reporter instead of console output.
	TUI bool
}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Detector (private - one strategy per run)
	di.RegisterToken(c, arbitrageDI.Detector, func(sr di.ServiceRegistry) app.Detector {
		cfg := sr.Get("config").(*config.Config)
		amount := cfg.Bot.FlashloanAmountDecimal()
		pricing := pricingDI.GetPricingService(sr)

		if cfg.Bot.Strategy == config.StrategyPredictive {
			return app.NewPredictiveDetector(
				predictionDI.GetPredictionService(sr),
				pricing.Venues(),
				amount,
				cfg.Bot.MinProfitPercent,
				app.SystemClock{},
			)
		}
		return app.NewDifferentialDetector(pricing, amount, cfg.Bot.MinProfitPercent, app.SystemClock{})
	})

	// Reporter (private)
	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		if m.TUI {
			return infra.NewTUIReporter(ledgerDI.GetLedgerService(sr))
		}
		return infra.NewConsoleReporter()
	})

	// Bot (public - driven by main, the dashboard and the HTTP surface)
	di.RegisterToken(c, arbitrageDI.Bot, func(sr di.ServiceRegistry) *app.Bot {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		deps := app.BotDeps{
			Pairs:    pricingDI.GetPricingService(sr),
			Detector: arbitrageDI.GetDetector(sr),
			Ledger:   ledgerDI.GetLedgerService(sr),
			Reporter: arbitrageDI.GetReporter(sr),
			Clock:    app.SystemClock{},
			Log:      log,
		}
		if n, ok := sr.Get("notifier").(*notify.Notifier); ok && n != nil {
			deps.Alerter = n
		}
		if cfg.Bot.TrainingMode {
			deps.Features = predictionDI.GetPredictionService(sr)
		} else {
			deps.Executor = blockchainDI.GetExecutor(sr)
		}

		bot, err := app.NewBot(BotConfig(cfg), deps)
		if err != nil {
			panic("failed to create bot: " + err.Error())
		}
		return bot
	})

	return nil
}

// BotConfig maps the bot section of the configuration onto the loop settings.
func BotConfig(cfg *config.Config) app.BotConfig {
	backoff := domain.DefaultBackoff()
	if cfg.Bot.InactiveBackoff > 0 {
		backoff.Coarse = cfg.Bot.InactiveBackoff
	}
	if cfg.Bot.CooldownBackoff > 0 {
		backoff.Fine = cfg.Bot.CooldownBackoff
	}

	return app.BotConfig{
		TrainingMode: cfg.Bot.TrainingMode,
		Amount:       cfg.Bot.FlashloanAmountDecimal(),
		Slippage:     cfg.Bot.MaxSlippagePercent,
		FeeTier:      uint32(cfg.Bot.FeeTier),
		RunInterval:  cfg.Bot.RunInterval(),
		CallTimeout:  cfg.Bot.CallTimeout,
		Backoff:      backoff,
		Policy: domain.Policy{
			ActiveHours:   domain.ParseActiveHours(cfg.Bot.ActiveHours),
			DailyTradeCap: cfg.Bot.DailyTradeCap,
			StopLossCount: cfg.Bot.StopLossCount,
			Cooldown:      cfg.Bot.Cooldown(),
		},
		AutoStart: cfg.Bot.AutoStart,
	}
}

// Startup resolves the bot so wiring errors surface before the loop runs.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	bot := arbitrageDI.GetBot(mono.Services())

	mono.Logger().Info(ctx, "arbitrage module started",
		"strategy", arbitrageDI.GetDetector(mono.Services()).Strategy(),
		"training_mode", cfg.Bot.TrainingMode,
		"run_interval", cfg.Bot.RunInterval(),
		"active_hours", domain.ParseActiveHours(cfg.Bot.ActiveHours).String(),
		"auto_start", cfg.Bot.AutoStart,
		"running", bot.IsRunning(),
	)
	return nil
}

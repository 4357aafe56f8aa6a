package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fd1az/flashloan-bot/business/arbitrage"
	arbitrageApp "github.com/fd1az/flashloan-bot/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/flashloan-bot/business/arbitrage/di"
	"github.com/fd1az/flashloan-bot/business/blockchain"
	"github.com/fd1az/flashloan-bot/business/ledger"
	ledgerApp "github.com/fd1az/flashloan-bot/business/ledger/app"
	ledgerDI "github.com/fd1az/flashloan-bot/business/ledger/di"
	"github.com/fd1az/flashloan-bot/business/prediction"
	"github.com/fd1az/flashloan-bot/business/pricing"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/health"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
)

// application is the booted process: container, control loop and HTTP surface.
type application struct {
	mono interface {
		monolith.Monolith
		Close() error
	}
	bot    *arbitrageApp.Bot
	ledger *ledgerApp.LedgerService
	health *health.Server
}

// boot builds the container, starts every module and the HTTP surface.
// progress receives dashboard startup steps.
func boot(ctx context.Context, cfg *config.Config, log *logger.Logger, tui bool, progress func(step, status string)) (a *application, err error) {
	progress("chain", "connecting")
	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		progress("chain", "failed")
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	progress("chain", "connected")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module wiring: %v", r)
		}
		if err != nil {
			_ = mono.Close()
		}
	}()

	// Dependency order: chain and quotes first, the control loop last.
	modules := []monolith.Module{
		&blockchain.Module{},
		&pricing.Module{},
		&prediction.Module{},
		&ledger.Module{},
		&arbitrage.Module{TUI: tui},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}

	progress("ledger", "connecting")
	progress("modules", "connecting")
	if err := mono.StartModules(ctx, modules...); err != nil {
		progress("modules", "failed")
		return nil, fmt.Errorf("failed to start modules: %w", err)
	}
	progress("ledger", "connected")
	progress("modules", "connected")

	a = &application{
		mono:   mono,
		bot:    arbitrageDI.GetBot(mono.Services()),
		ledger: ledgerDI.GetLedgerService(mono.Services()),
	}
	a.health = a.newHealthServer(cfg, log)
	if err := a.health.Start(ctx); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	}
	return a, nil
}

func (a *application) newHealthServer(cfg *config.Config, log *logger.Logger) *health.Server {
	s := health.NewServer(cfg.Server.Port, version, log)

	s.RegisterCheck("ledger", func(ctx context.Context) (bool, string) {
		if err := a.ledger.Ping(ctx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})
	s.RegisterCheck("rpc", func(ctx context.Context) (bool, string) {
		n, err := a.mono.EthClient().BlockNumber(ctx)
		if err != nil {
			return false, err.Error()
		}
		return true, fmt.Sprintf("block %d", n)
	})
	if rdb := a.mono.Redis(); rdb != nil {
		s.RegisterCheck("redis", func(ctx context.Context) (bool, string) {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return false, err.Error()
			}
			return true, ""
		})
	}

	s.SetController(a.bot)
	s.SetStatus(func() any { return a.bot.Snapshot() })
	s.SetTrades(func(ctx context.Context, limit int) (any, error) {
		return a.ledger.Recent(ctx, limit)
	})
	return s
}

func (a *application) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = a.health.Stop(ctx)
	a.ledger.Close()
	_ = a.mono.Close()
}

// botHandle lets the dashboard exist before the bot is built.
type botHandle struct {
	mu  sync.Mutex
	bot *arbitrageApp.Bot
}

var errBooting = errors.New("bot is still starting")

func (h *botHandle) set(b *arbitrageApp.Bot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bot = b
}

func (h *botHandle) get() *arbitrageApp.Bot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bot
}

func (h *botHandle) Start() error {
	b := h.get()
	if b == nil {
		return errBooting
	}
	return b.Start()
}

func (h *botHandle) Stop() {
	if b := h.get(); b != nil {
		b.Stop()
	}
}

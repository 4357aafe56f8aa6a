// Package ledger implements the ledger bounded context: trade records,
// training samples and reports.
package ledger

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fd1az/flashloan-bot/business/ledger/app"
	ledgerDI "github.com/fd1az/flashloan-bot/business/ledger/di"
	"github.com/fd1az/flashloan-bot/business/ledger/infra/memory"
	"github.com/fd1az/flashloan-bot/business/ledger/infra/postgres"
	ledgerRedis "github.com/fd1az/flashloan-bot/business/ledger/infra/redis"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
)

const connectTimeout = 15 * time.Second

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Store (private)
	di.RegisterToken(c, ledgerDI.Store, func(sr di.ServiceRegistry) app.Store {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Ledger.Driver != config.LedgerPostgres {
			return memory.New()
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := postgres.NewClient(ctx, postgres.ClientConfig{
			DSN:      cfg.Ledger.DatabaseURL,
			MaxConns: cfg.Ledger.MaxConns,
			MinConns: cfg.Ledger.MinConns,
		})
		if err != nil {
			panic("failed to connect ledger database: " + err.Error())
		}
		if err := client.RunMigrations(ctx); err != nil {
			client.Close()
			panic("failed to migrate ledger database: " + err.Error())
		}
		return postgres.NewStore(client)
	})

	// Recent cache (private - nil without Redis)
	di.RegisterToken(c, ledgerDI.RecentCache, func(sr di.ServiceRegistry) app.RecentCache {
		cfg := sr.Get("config").(*config.Config)
		rdb, _ := sr.Get("redis").(*redis.Client)
		if rdb == nil {
			return nil
		}
		return ledgerRedis.NewRecent(rdb, cfg.Ledger.RecentSize)
	})

	// LedgerService (public - written by the control loop, read by status surfaces)
	di.RegisterToken(c, ledgerDI.LedgerService, func(sr di.ServiceRegistry) *app.LedgerService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewLedgerService(ledgerDI.GetStore(sr), ledgerDI.GetRecentCache(sr), log)
	})

	return nil
}

// Startup opens the store so a bad database URL fails before the loop runs.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := ledgerDI.GetLedgerService(mono.Services())
	if err := svc.Ping(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "ledger module started",
		"driver", mono.Config().Ledger.Driver,
		"recent_cache", ledgerDI.GetRecentCache(mono.Services()) != nil,
	)
	return nil
}

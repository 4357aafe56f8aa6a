// Package blockchain implements the blockchain bounded context: gas pricing and
// flashloan transaction submission.
package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/flashloan-bot/business/blockchain/app"
	blockchainDI "github.com/fd1az/flashloan-bot/business/blockchain/di"
	"github.com/fd1az/flashloan-bot/business/blockchain/infra/ethereum"
	"github.com/fd1az/flashloan-bot/business/blockchain/infra/redislock"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// GasOracle (public - used by features and the executor)
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		oracleCfg := ethereum.DefaultGasOracleConfig()
		if cfg.Ethereum.GasCacheTTL > 0 {
			oracleCfg.CacheTTL = cfg.Ethereum.GasCacheTTL
		}
		if cfg.Ethereum.MaxGasPriceGwei > 0 {
			oracleCfg.MaxGasPrice = new(big.Int).Mul(big.NewInt(cfg.Ethereum.MaxGasPriceGwei), big.NewInt(1e9))
		}

		oracle, err := ethereum.NewGasOracle(oracleCfg, ethClient, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Relay (private - nil when no relay URL is configured)
	di.RegisterToken(c, blockchainDI.Relay, func(sr di.ServiceRegistry) app.Relay {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Ethereum.RelayURL == "" {
			return nil
		}
		relay, err := ethereum.DialRelay(context.Background(), cfg.Ethereum.RelayURL)
		if err != nil {
			panic("failed to dial relay: " + err.Error())
		}
		return relay
	})

	// SignerLock (private - nil without Redis)
	di.RegisterToken(c, blockchainDI.SignerLock, func(sr di.ServiceRegistry) app.SignerLock {
		cfg := sr.Get("config").(*config.Config)
		rdb, _ := sr.Get("redis").(*redis.Client)
		if rdb == nil {
			return nil
		}
		return redislock.New(rdb, cfg.Redis.LockTTL)
	})

	// Executor (public - used by the control loop outside training mode)
	di.RegisterToken(c, blockchainDI.Executor, func(sr di.ServiceRegistry) *app.Executor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		exec, err := app.NewExecutor(app.ExecutorConfig{
			PrivateKey: cfg.Ethereum.PrivateKey,
			Contract:   cfg.Ethereum.ContractAddressHex(),
			ChainID:    new(big.Int).SetUint64(cfg.Ethereum.ChainID),
			UseBundle:  cfg.Ethereum.UseBundle,
		},
			ethClient,
			blockchainDI.GetGasOracle(sr),
			blockchainDI.GetRelay(sr),
			blockchainDI.GetSignerLock(sr),
			log,
		)
		if err != nil {
			panic("failed to create executor: " + err.Error())
		}
		return exec
	})

	return nil
}

// Startup initializes the blockchain module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	oracle := blockchainDI.GetGasOracle(mono.Services())
	if price, err := oracle.GasPrice(ctx); err != nil {
		log.Warn(ctx, "gas oracle not ready", "error", err)
	} else {
		log.Info(ctx, "gas oracle ready", "gwei", price.Gwei())
	}

	if cfg.Bot.TrainingMode {
		log.Info(ctx, "blockchain module started", "executor", "disabled (training mode)")
		return nil
	}

	exec := blockchainDI.GetExecutor(mono.Services())
	log.Info(ctx, "blockchain module started",
		"signer", exec.From().Hex(),
		"contract", cfg.Ethereum.ContractAddress,
		"relay", cfg.Ethereum.RelayURL != "",
		"bundle", cfg.Ethereum.UseBundle,
	)
	return nil
}

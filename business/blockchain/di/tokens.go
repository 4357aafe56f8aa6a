// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/fd1az/flashloan-bot/business/blockchain/app"
	"github.com/fd1az/flashloan-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	GasOracle = di.NewToken[app.GasOracle]("blockchain.GasOracle")
	Executor  = di.NewToken[*app.Executor]("blockchain.Executor")
)

// Private dependency tokens - internal to blockchain module
var (
	Relay      = di.NewToken[app.Relay]("blockchain:relay")
	SignerLock = di.NewToken[app.SignerLock]("blockchain:signerLock")
)

// Helper functions for type-safe access
func GetGasOracle(c di.ServiceRegistry) app.GasOracle {
	return di.GetToken(c, GasOracle)
}

func GetExecutor(c di.ServiceRegistry) *app.Executor {
	return di.GetToken(c, Executor)
}

func GetRelay(c di.ServiceRegistry) app.Relay {
	return di.GetToken(c, Relay)
}

func GetSignerLock(c di.ServiceRegistry) app.SignerLock {
	return di.GetToken(c, SignerLock)
}

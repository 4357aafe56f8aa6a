// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/fd1az/flashloan-bot/business/ledger/app"
	"github.com/fd1az/flashloan-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	LedgerService = di.NewToken[*app.LedgerService]("ledger.LedgerService")
)

// Private dependency tokens - internal to ledger module
var (
	Store       = di.NewToken[app.Store]("ledger:store")
	RecentCache = di.NewToken[app.RecentCache]("ledger:recentCache")
)

func GetLedgerService(c di.ServiceRegistry) *app.LedgerService {
	return di.GetToken(c, LedgerService)
}

func GetStore(c di.ServiceRegistry) app.Store {
	return di.GetToken(c, Store)
}

func GetRecentCache(c di.ServiceRegistry) app.RecentCache {
	return di.GetToken(c, RecentCache)
}

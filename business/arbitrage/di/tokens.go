// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/flashloan-bot/business/arbitrage/app"
	"github.com/fd1az/flashloan-bot/internal/di"
)

// Public tokens - can be used by other modules
var (
	Bot = di.NewToken[*app.Bot]("arbitrage.Bot")
)

// Private tokens - internal to arbitrage module
var (
	Detector = di.NewToken[app.Detector]("arbitrage:detector")
	Reporter = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetBot(c di.ServiceRegistry) *app.Bot {
	return di.GetToken(c, Bot)
}

func GetDetector(c di.ServiceRegistry) app.Detector {
	return di.GetToken(c, Detector)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

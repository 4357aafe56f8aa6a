// Package di contains dependency injection tokens for the prediction context.
package di

import (
	"github.com/fd1az/flashloan-bot/business/prediction/app"
	"github.com/fd1az/flashloan-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PredictionService = di.NewToken[*app.PredictionService]("prediction.PredictionService")
)

// Private dependency tokens - internal to prediction module
var (
	Oracle = di.NewToken[app.Oracle]("prediction:oracle")
)

func GetPredictionService(c di.ServiceRegistry) *app.PredictionService {
	return di.GetToken(c, PredictionService)
}

func GetOracle(c di.ServiceRegistry) app.Oracle {
	return di.GetToken(c, Oracle)
}

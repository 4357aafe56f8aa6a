// Package app contains application services and port definitions for the prediction context.
package app

import (
	"context"

	"github.com/fd1az/flashloan-bot/business/prediction/domain"
)

// Oracle predicts the profit percent of an arbitrage attempt.
type Oracle interface {
	Name() string
	Predict(ctx context.Context, features domain.FeatureVector) (float64, error)
}

// GasSource reports the current network gas price in gwei.
type GasSource interface {
	GasGwei(ctx context.Context) (float64, error)
}

// VolatilitySource reports a recent volatility figure in percent.
type VolatilitySource interface {
	Volatility(ctx context.Context) (float64, error)
}

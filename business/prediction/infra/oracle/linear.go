// Package oracle provides the prediction oracle implementations.
package oracle

import (
	"context"

	"github.com/fd1az/flashloan-bot/business/prediction/app"
	"github.com/fd1az/flashloan-bot/business/prediction/domain"
)

var _ app.Oracle = (*Linear)(nil)

// Weights are the coefficients of a linear model.
type Weights struct {
	Intercept  float64
	Amount     float64
	Slippage   float64
	GasPrice   float64
	Volatility float64
}

// Linear evaluates intercept + Σ wᵢ·featureᵢ in process.
type Linear struct {
	w Weights
}

// NewLinear creates a linear oracle.
func NewLinear(w Weights) *Linear {
	return &Linear{w: w}
}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) Predict(_ context.Context, f domain.FeatureVector) (float64, error) {
	return l.w.Intercept +
		l.w.Amount*f.Amount +
		l.w.Slippage*f.Slippage +
		l.w.GasPrice*f.GasGwei +
		l.w.Volatility*f.Volatility, nil
}

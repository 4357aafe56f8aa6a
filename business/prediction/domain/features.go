// Package domain contains the core domain types for the prediction context.
package domain

import (
	"math"
	"strconv"
)

// FeatureVector is the oracle input assembled once per iteration.
type FeatureVector struct {
	Amount     float64 `json:"amount"`
	Slippage   float64 `json:"slippage"`
	GasGwei    float64 `json:"gas_price"`
	Volatility float64 `json:"volatility"`
}

// Args renders the features in model column order.
func (f FeatureVector) Args() []string {
	return []string{
		strconv.FormatFloat(f.Amount, 'f', -1, 64),
		strconv.FormatFloat(f.Slippage, 'f', -1, 64),
		strconv.FormatFloat(f.GasGwei, 'f', -1, 64),
		strconv.FormatFloat(f.Volatility, 'f', -1, 64),
	}
}

// Sanitize maps NaN and infinities to 0.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Prediction is one oracle answer. Err is kept for logging; Percent is
// already 0 when Err is set.
type Prediction struct {
	Features FeatureVector
	Percent  float64
	Oracle   string
	Err      error
}

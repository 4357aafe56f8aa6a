// Package sources adapts other contexts' services into prediction features.
package sources

import (
	"context"

	blockchainApp "github.com/fd1az/flashloan-bot/business/blockchain/app"
	"github.com/fd1az/flashloan-bot/business/prediction/app"
)

var _ app.GasSource = (*Gas)(nil)

// Gas reads the cached network gas price.
type Gas struct {
	oracle blockchainApp.GasOracle
}

// NewGas wraps the blockchain gas oracle.
func NewGas(oracle blockchainApp.GasOracle) *Gas {
	return &Gas{oracle: oracle}
}

// GasGwei returns the gas price in gwei.
func (g *Gas) GasGwei(ctx context.Context) (float64, error) {
	p, err := g.oracle.GasPrice(ctx)
	if err != nil {
		return 0, err
	}
	return p.Gwei(), nil
}

// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"
)

var weiPerGwei = big.NewFloat(1e9)

// GasPrice is a legacy gas price observation.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Timestamp: time.Now(),
	}
}

// Gwei returns the price in gwei.
func (p *GasPrice) Gwei() float64 {
	if p == nil || p.Wei == nil {
		return 0
	}
	g, _ := new(big.Float).Quo(new(big.Float).SetInt(p.Wei), weiPerGwei).Float64()
	return g
}

// GasEstimate is a gas limit priced at a gas price.
type GasEstimate struct {
	GasLimit uint64
	Price    *GasPrice
}

// NewGasEstimate creates a GasEstimate.
func NewGasEstimate(gasLimit uint64, price *GasPrice) *GasEstimate {
	return &GasEstimate{GasLimit: gasLimit, Price: price}
}

// TotalWei is GasLimit * Price.
func (e *GasEstimate) TotalWei() *big.Int {
	return new(big.Int).Mul(e.Price.Wei, new(big.Int).SetUint64(e.GasLimit))
}

// TotalGwei is the total cost in gwei.
func (e *GasEstimate) TotalGwei() float64 {
	return e.Price.Gwei() * float64(e.GasLimit)
}

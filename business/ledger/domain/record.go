// Package domain contains the trade ledger types.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the outcome of one pair evaluation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusSkipped, StatusError:
		return true
	}
	return false
}

// TradeRecord is one append-only ledger entry. ID and Timestamp are assigned
// by the store at write time.
type TradeRecord struct {
	ID        string          `json:"id"`
	Pair      string          `json:"pair"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	ProfitUSD decimal.Decimal `json:"profit_usd"`
	Status    Status          `json:"status"`
	TxHash    string          `json:"tx_hash,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// TrainingSample is one evaluation captured in training mode.
type TrainingSample struct {
	Pair       string    `json:"pair"`
	Strategy   string    `json:"strategy"`
	Amount     float64   `json:"amount"`
	Slippage   float64   `json:"slippage"`
	GasPrice   float64   `json:"gas_price"`
	Volatility float64   `json:"volatility"`
	Profit     float64   `json:"profit"`
	Found      bool      `json:"found"`
	CreatedAt  time.Time `json:"created_at"`
}

// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/flashloan-bot/business/blockchain/domain"
)

// GasOracle supplies gas prices and limits.
type GasOracle interface {
	// GasPrice returns a recent, possibly cached, gas price. Used for features.
	GasPrice(ctx context.Context) (*domain.GasPrice, error)

	// LiveGasPrice always asks the node. Used for signing.
	LiveGasPrice(ctx context.Context) (*domain.GasPrice, error)

	// EstimateGas estimates the gas limit for msg, with a safety margin.
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// Chain is the part of the RPC node the executor needs.
type Chain interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Relay is a private transaction relay.
type Relay interface {
	// SendBundle submits a single-transaction bundle targeting blockNumber.
	SendBundle(ctx context.Context, rawTx []byte, blockNumber uint64) error

	// SendRawTransaction submits the signed transaction privately.
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)
}

// SignerLock serializes nonce use for one signer across processes.
type SignerLock interface {
	// Acquire returns a release func, or a SignerBusy error when another
	// process holds the lock.
	Acquire(ctx context.Context, signer common.Address) (func(), error)
}

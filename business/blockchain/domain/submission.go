package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Route is the path a signed transaction took to the network.
type Route string

const (
	RouteBundle Route = "bundle" // eth_sendBundle to a private relay
	RouteRelay  Route = "relay"  // eth_sendRawTransaction to a private relay
	RoutePublic Route = "public" // the regular RPC node
)

// Submission describes a transaction accepted by a relay or the public node.
// Acceptance is not inclusion: the outcome is never awaited.
type Submission struct {
	TxHash   common.Hash
	Route    Route
	Nonce    uint64
	GasLimit uint64
	GasPrice *big.Int
	// TargetBlock is set for bundles.
	TargetBlock uint64
	// RelayError is the relay failure that caused a public fallback.
	RelayError string
}

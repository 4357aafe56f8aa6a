// Package asset models the ERC20 tokens the flashloan contract borrows and
// routes through, and exact base-unit amounts of them. Amounts stay big.Int
// until they reach a boundary (config, display, ledger).
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// tokenKey is the identity of a token: symbols collide across chains and
// across bridged variants, addresses do not.
type tokenKey struct {
	chainID uint64
	address common.Address
}

// Asset is an ERC20 token on a specific chain.
type Asset struct {
	key      tokenKey
	symbol   string
	name     string
	decimals uint8
}

// MustNewToken creates a token. It panics on a zero address, an empty symbol
// or more than 30 decimals, all of which are programming errors.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	if address == (common.Address{}) {
		panic("asset: zero token address")
	}
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic(fmt.Sprintf("asset: %s has %d decimals", symbol, decimals))
	}
	return &Asset{
		key:      tokenKey{chainID: chainID, address: address},
		symbol:   symbol,
		name:     name,
		decimals: decimals,
	}
}

// Symbol returns the display ticker, e.g. "USDC.e".
func (a *Asset) Symbol() string { return a.symbol }

// Name returns the token name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

func (a *Asset) Decimals() uint8 { return a.decimals }

func (a *Asset) ChainID() uint64 { return a.key.chainID }

// Address returns the token contract, the value passed on chain.
func (a *Asset) Address() common.Address { return a.key.address }

func (a *Asset) String() string { return a.symbol }

package asset

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry resolves token addresses from pair lists into assets. It is safe
// for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tokens map[tokenKey]*Asset
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[tokenKey]*Asset)}
}

// Register adds a token. Registering the same address twice panics.
func (r *Registry) Register(a *Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[a.key]; ok {
		panic(fmt.Sprintf("asset: %s (%s) already registered", a.symbol, a.key.address.Hex()))
	}
	r.tokens[a.key] = a
}

// GetToken looks a token up by chain and address.
func (r *Registry) GetToken(chainID uint64, address common.Address) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.tokens[tokenKey{chainID: chainID, address: address}]
	return a, ok
}

// Resolve returns the registered token at address, or registers one named
// after the shortened address with the given decimals. Pair files carry
// addresses only.
func (r *Registry) Resolve(chainID uint64, address common.Address, decimals uint8) *Asset {
	key := tokenKey{chainID: chainID, address: address}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.tokens[key]; ok {
		return a
	}
	a := MustNewToken(chainID, address, address.Hex()[:8], "", decimals)
	r.tokens[key] = a
	return a
}

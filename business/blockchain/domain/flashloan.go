package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// FlashloanABI is the entrypoint of the deployed arbitrage contract.
const FlashloanABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "asset", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "uint8", "name": "dex", "type": "uint8"},
			{"internalType": "address", "name": "intermediate", "type": "address"},
			{"internalType": "uint24", "name": "fee", "type": "uint24"}
		],
		"name": "initiateFlashloan",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var flashloanABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(FlashloanABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// FlashloanCall holds the arguments of initiateFlashloan.
type FlashloanCall struct {
	Asset        common.Address
	Amount       *big.Int // base units of Asset
	Dex          uint8
	Intermediate common.Address
	Fee          uint32 // uint24 on chain
}

// Validate checks the call fits the contract's argument types.
func (c FlashloanCall) Validate() error {
	switch {
	case c.Amount == nil || c.Amount.Sign() <= 0:
		return fmt.Errorf("amount must be positive")
	case c.Fee >= 1<<24:
		return fmt.Errorf("fee %d overflows uint24", c.Fee)
	case c.Asset == (common.Address{}):
		return fmt.Errorf("asset address is zero")
	}
	return nil
}

// Pack ABI-encodes the call.
func (c FlashloanCall) Pack() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return flashloanABI.Pack("initiateFlashloan", c.Asset, c.Amount, c.Dex, c.Intermediate, big.NewInt(int64(c.Fee)))
}

// UnpackFlashloanCall decodes calldata produced by Pack.
func UnpackFlashloanCall(data []byte) (FlashloanCall, error) {
	method, ok := flashloanABI.Methods["initiateFlashloan"]
	if !ok || len(data) < 4 {
		return FlashloanCall{}, fmt.Errorf("calldata too short")
	}
	if !strings.EqualFold(common.Bytes2Hex(data[:4]), common.Bytes2Hex(method.ID)) {
		return FlashloanCall{}, fmt.Errorf("not an initiateFlashloan call")
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return FlashloanCall{}, err
	}
	return FlashloanCall{
		Asset:        args[0].(common.Address),
		Amount:       args[1].(*big.Int),
		Dex:          args[2].(uint8),
		Intermediate: args[3].(common.Address),
		Fee:          uint32(args[4].(*big.Int).Uint64()),
	}, nil
}

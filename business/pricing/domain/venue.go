package domain

import "github.com/ethereum/go-ethereum/common"

// Venue is a liquidity source offering quotes for a pair.
type Venue struct {
	Name string
	// Selector is the dex index passed to the flashloan contract.
	Selector uint8
	Quoter   common.Address
	// Protocol is the aggregator protocol filter for this venue.
	Protocol string
	FeeTiers []int
}

// String returns the venue name.
func (v Venue) String() string {
	return v.Name
}

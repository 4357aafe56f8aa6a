package domain

import (
	"time"

	"github.com/shopspring/decimal"

	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	predictionDomain "github.com/fd1az/flashloan-bot/business/prediction/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
)

// Strategy selects the detector for a run.
type Strategy string

const (
	StrategyDifferential Strategy = "differential"
	StrategyPredictive   Strategy = "predictive"
)

// Tick identifies one loop iteration. Per-tick work such as the oracle call
// is memoized on ID.
type Tick struct {
	ID      string
	Started time.Time
}

// Opportunity is the detector verdict for one pair. It is rebuilt on every
// evaluation and never stored.
type Opportunity struct {
	Found    bool
	Strategy Strategy
	Pair     pricingDomain.Pair
	// Cheap is the buy leg, Expensive the sell leg.
	Cheap     pricingDomain.Venue
	Expensive pricingDomain.Venue
	// Percent is the quote differential or the predicted profit percent.
	Percent         decimal.Decimal
	EstimatedProfit decimal.Decimal
	Amount          decimal.Decimal
	// Features is set by the predictive detector.
	Features  *predictionDomain.FeatureVector
	Timestamp time.Time
}

// Dex is the venue selector passed to the flashloan contract: the venue that
// returned the higher output.
func (o Opportunity) Dex() uint8 {
	return o.Expensive.Selector
}

// Direction returns the buy and sell venues.
func (o Opportunity) Direction() Direction {
	return Direction{Buy: o.Cheap.Name, Sell: o.Expensive.Name}
}

// Outcome is what the loop did with one pair.
type Outcome struct {
	TickID      string
	Opportunity Opportunity
	Status      ledgerDomain.Status
	TxHash      string
	Err         error
	Timestamp   time.Time
}

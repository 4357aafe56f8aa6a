// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"time"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	blockchainDomain "github.com/fd1az/flashloan-bot/business/blockchain/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	predictionDomain "github.com/fd1az/flashloan-bot/business/prediction/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/asset"
)

// Pricing quotes pairs on the two configured venues.
type Pricing interface {
	Pairs(ctx context.Context) ([]pricingDomain.Pair, error)
	Venues() [2]pricingDomain.Venue
	Differential(ctx context.Context, pair pricingDomain.Pair, amount asset.Amount) (pricingDomain.Differential, error)
}

// Predictor asks the prediction oracle for a profit percent. It never fails;
// errors come back as a zero Percent.
type Predictor interface {
	Predict(ctx context.Context) predictionDomain.Prediction
}

// FeatureSource collects the oracle features without calling the oracle.
type FeatureSource interface {
	Features(ctx context.Context) predictionDomain.FeatureVector
}

// Executor submits a flashloan transaction.
type Executor interface {
	Execute(ctx context.Context, call blockchainDomain.FlashloanCall) (*blockchainDomain.Submission, error)
}

// Ledger is the append-only trade log.
type Ledger interface {
	Append(ctx context.Context, rec ledgerDomain.TradeRecord) (ledgerDomain.TradeRecord, error)
	RecordSample(ctx context.Context, s ledgerDomain.TrainingSample) error
}

// Alerter delivers operator alerts.
type Alerter interface {
	Notify(ctx context.Context, title, message string)
}

// Detector turns market data into an Opportunity for one pair.
type Detector interface {
	Strategy() domain.Strategy
	Detect(ctx context.Context, tick domain.Tick, pair pricingDomain.Pair) (domain.Opportunity, error)
}

// Reporter displays loop activity.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report shows what the loop did with one pair.
	Report(outcome domain.Outcome)

	// UpdateState shows the current loop state.
	UpdateState(snap domain.Snapshot)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Clock drives the loop cadence.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

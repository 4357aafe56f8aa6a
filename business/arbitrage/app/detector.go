package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	predictionDomain "github.com/fd1az/flashloan-bot/business/prediction/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
)

var (
	_ Detector = (*DifferentialDetector)(nil)
	_ Detector = (*PredictiveDetector)(nil)
)

// DifferentialDetector compares the two venues' quotes for the flashloan
// amount.
type DifferentialDetector struct {
	pricing    Pricing
	amount     decimal.Decimal
	minPercent decimal.Decimal
	clock      Clock
}

// NewDifferentialDetector creates the quote-differential strategy.
func NewDifferentialDetector(pricing Pricing, amount decimal.Decimal, minProfitPercent float64, clock Clock) *DifferentialDetector {
	return &DifferentialDetector{
		pricing:    pricing,
		amount:     amount,
		minPercent: decimal.NewFromFloat(minProfitPercent),
		clock:      clock,
	}
}

func (d *DifferentialDetector) Strategy() domain.Strategy { return domain.StrategyDifferential }

// Detect quotes both venues. Found iff the differential reaches the minimum;
// the lower quote is the buy leg.
func (d *DifferentialDetector) Detect(ctx context.Context, _ domain.Tick, pair pricingDomain.Pair) (domain.Opportunity, error) {
	amountIn, err := asset.ParseDecimal(pair.Base, d.amount)
	if err != nil {
		return domain.Opportunity{}, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext("flashloan amount for "+pair.String()))
	}

	diff, err := d.pricing.Differential(ctx, pair, amountIn)
	if err != nil {
		return domain.Opportunity{}, err
	}

	opp := domain.Opportunity{
		Strategy:  domain.StrategyDifferential,
		Pair:      pair,
		Cheap:     diff.Cheap.Venue,
		Expensive: diff.Expensive.Venue,
		Percent:   diff.Percent,
		Amount:    d.amount,
		Timestamp: d.clock.Now(),
	}
	if diff.Percent.GreaterThanOrEqual(d.minPercent) {
		opp.Found = true
		opp.EstimatedProfit = diff.EstimatedProfit(d.amount)
	}
	return opp, nil
}

// PredictiveDetector asks the oracle once per tick and applies the answer to
// every pair of that tick.
type PredictiveDetector struct {
	predictor  Predictor
	venues     [2]pricingDomain.Venue
	amount     decimal.Decimal
	minPercent float64
	clock      Clock

	mu     sync.Mutex
	tickID string
	last   predictionDomain.Prediction
}

// NewPredictiveDetector creates the oracle strategy. Found opportunities
// route through venues[0] as the sell leg.
func NewPredictiveDetector(predictor Predictor, venues [2]pricingDomain.Venue, amount decimal.Decimal, minProfitPercent float64, clock Clock) *PredictiveDetector {
	return &PredictiveDetector{
		predictor:  predictor,
		venues:     venues,
		amount:     amount,
		minPercent: minProfitPercent,
		clock:      clock,
	}
}

func (d *PredictiveDetector) Strategy() domain.Strategy { return domain.StrategyPredictive }

func (d *PredictiveDetector) Detect(ctx context.Context, tick domain.Tick, pair pricingDomain.Pair) (domain.Opportunity, error) {
	p := d.predict(ctx, tick)
	features := p.Features

	opp := domain.Opportunity{
		Strategy:  domain.StrategyPredictive,
		Pair:      pair,
		Cheap:     d.venues[1],
		Expensive: d.venues[0],
		Percent:   decimal.NewFromFloat(p.Percent),
		Amount:    d.amount,
		Features:  &features,
		Timestamp: d.clock.Now(),
	}
	if p.Percent >= d.minPercent {
		opp.Found = true
		opp.EstimatedProfit = opp.Percent.Div(decimal.NewFromInt(100)).Mul(d.amount)
	}
	return opp, nil
}

func (d *PredictiveDetector) predict(ctx context.Context, tick domain.Tick) predictionDomain.Prediction {
	d.mu.Lock()
	defer d.mu.Unlock()

	if tick.ID != "" && tick.ID == d.tickID {
		return d.last
	}
	d.last = d.predictor.Predict(ctx)
	d.tickID = tick.ID
	return d.last
}

package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	blockchainDomain "github.com/fd1az/flashloan-bot/business/blockchain/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	predictionDomain "github.com/fd1az/flashloan-bot/business/prediction/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/asset"
)

var (
	uni   = pricingDomain.Venue{Name: "uniswap", Selector: 0}
	sushi = pricingDomain.Venue{Name: "sushiswap", Selector: 1}

	usdcUsdt = pricingDomain.NewPair(asset.USDCe, asset.USDT)
	usdcDai  = pricingDomain.NewPair(asset.USDCe, asset.DAI)
)

// fakePricing quotes fixed outputs per venue.
type fakePricing struct {
	mu      sync.Mutex
	outputs map[string]string
	err     error
	pairs   []pricingDomain.Pair
	calls   int
}

func (p *fakePricing) Pairs(context.Context) ([]pricingDomain.Pair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.pairs, nil
}

func (p *fakePricing) pairCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakePricing) Venues() [2]pricingDomain.Venue {
	return [2]pricingDomain.Venue{uni, sushi}
}

func (p *fakePricing) Differential(_ context.Context, pair pricingDomain.Pair, amount asset.Amount) (pricingDomain.Differential, error) {
	if p.err != nil {
		return pricingDomain.Differential{}, p.err
	}
	q := func(v pricingDomain.Venue) pricingDomain.Quote {
		out, err := asset.ParseString(pair.Quote, p.outputs[v.Name])
		if err != nil {
			panic(err)
		}
		return pricingDomain.NewQuote(v, pair, amount, out, 3000)
	}
	return pricingDomain.CompareQuotes(q(uni), q(sushi)), nil
}

// fakeExecutor records calls and fails when err is set.
type fakeExecutor struct {
	calls []blockchainDomain.FlashloanCall
	err   error
}

func (e *fakeExecutor) Execute(_ context.Context, call blockchainDomain.FlashloanCall) (*blockchainDomain.Submission, error) {
	e.calls = append(e.calls, call)
	if e.err != nil {
		return nil, e.err
	}
	return &blockchainDomain.Submission{
		TxHash: common.HexToHash("0x01"),
		Route:  blockchainDomain.RoutePublic,
	}, nil
}

// fakeLedger keeps records in memory.
type fakeLedger struct {
	mu      sync.Mutex
	records []ledgerDomain.TradeRecord
	samples []ledgerDomain.TrainingSample
	err     error
}

func (l *fakeLedger) Append(_ context.Context, rec ledgerDomain.TradeRecord) (ledgerDomain.TradeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return rec, l.err
	}
	l.records = append(l.records, rec)
	return rec, nil
}

func (l *fakeLedger) RecordSample(_ context.Context, s ledgerDomain.TrainingSample) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.samples = append(l.samples, s)
	return nil
}

type countingPredictor struct {
	percent float64
	calls   int
}

func (p *countingPredictor) Predict(context.Context) predictionDomain.Prediction {
	p.calls++
	return predictionDomain.Prediction{
		Features: predictionDomain.FeatureVector{Amount: 5000, Slippage: 0.5, GasGwei: 30, Volatility: 2},
		Percent:  p.percent,
		Oracle:   "counting",
	}
}

type recordingAlerter struct {
	mu     sync.Mutex
	titles []string
}

func (a *recordingAlerter) Notify(_ context.Context, title, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles = append(a.titles, title)
}

// manualClock returns a settable time; After never fires so loop sleeps
// only end on stop or cancellation.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *manualClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}

var errRPC = errors.New("rpc timeout")

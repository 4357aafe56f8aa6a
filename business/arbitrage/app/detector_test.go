package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
)

func TestDifferentialDetector(t *testing.T) {
	amount := decimal.RequireFromString("5000")
	clock := &manualClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}

	tests := []struct {
		name        string
		uni, sushi  string
		wantFound   bool
		wantPercent string
		wantCheap   string
		wantDex     uint8
	}{
		{
			name:        "sushi cheaper above threshold",
			uni:         "1000.00",
			sushi:       "995.00",
			wantFound:   true,
			wantPercent: "0.5025",
			wantCheap:   "sushiswap",
			wantDex:     0,
		},
		{
			name:        "below threshold",
			uni:         "1000.00",
			sushi:       "999.00",
			wantFound:   false,
			wantPercent: "0.1001",
			wantCheap:   "sushiswap",
			wantDex:     0,
		},
		{
			name:        "uni cheaper",
			uni:         "990.00",
			sushi:       "1000.00",
			wantFound:   true,
			wantPercent: "1.0101",
			wantCheap:   "uniswap",
			wantDex:     1,
		},
		{
			name:        "threshold is inclusive",
			uni:         "1005.00",
			sushi:       "1000.00",
			wantFound:   true,
			wantPercent: "0.5",
			wantCheap:   "sushiswap",
			wantDex:     0,
		},
		{
			name:        "both zero",
			uni:         "0",
			sushi:       "0",
			wantFound:   false,
			wantPercent: "0",
			wantCheap:   "sushiswap",
			wantDex:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing := &fakePricing{outputs: map[string]string{"uniswap": tt.uni, "sushiswap": tt.sushi}}
			d := NewDifferentialDetector(pricing, amount, 0.5, clock)

			opp, err := d.Detect(context.Background(), domain.Tick{}, usdcUsdt)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFound, opp.Found)
			assert.Equal(t, tt.wantPercent, opp.Percent.Round(4).String())
			assert.Equal(t, tt.wantCheap, opp.Cheap.Name)
			assert.Equal(t, tt.wantDex, opp.Dex())
			if tt.wantFound {
				want := opp.Percent.Div(decimal.NewFromInt(100)).Mul(amount)
				assert.True(t, want.Equal(opp.EstimatedProfit))
			} else {
				assert.True(t, opp.EstimatedProfit.IsZero())
			}
		})
	}
}

func TestDifferentialDetectorPropagatesQuoteErrors(t *testing.T) {
	pricing := &fakePricing{err: errRPC}
	d := NewDifferentialDetector(pricing, decimal.NewFromInt(5000), 0.5, &manualClock{})

	_, err := d.Detect(context.Background(), domain.Tick{}, usdcUsdt)
	assert.ErrorIs(t, err, errRPC)
}

func TestPredictiveDetectorCallsOracleOncePerTick(t *testing.T) {
	p := &countingPredictor{percent: 0.7}
	d := NewPredictiveDetector(p, [2]pricingDomain.Venue{uni, sushi}, decimal.NewFromInt(5000), 0.5, &manualClock{})
	ctx := context.Background()

	tick := domain.Tick{ID: "t1"}
	for _, pair := range []pricingDomain.Pair{usdcUsdt, usdcDai, usdcUsdt} {
		opp, err := d.Detect(ctx, tick, pair)
		require.NoError(t, err)
		assert.True(t, opp.Found)
		assert.Equal(t, uint8(0), opp.Dex())
		require.NotNil(t, opp.Features)
		assert.Equal(t, 30.0, opp.Features.GasGwei)
	}
	assert.Equal(t, 1, p.calls)

	_, _ = d.Detect(ctx, domain.Tick{ID: "t2"}, usdcUsdt)
	assert.Equal(t, 2, p.calls)
}

func TestPredictiveDetectorBelowThreshold(t *testing.T) {
	p := &countingPredictor{percent: 0.2}
	d := NewPredictiveDetector(p, [2]pricingDomain.Venue{uni, sushi}, decimal.NewFromInt(5000), 0.5, &manualClock{})

	opp, err := d.Detect(context.Background(), domain.Tick{ID: "x"}, usdcUsdt)
	require.NoError(t, err)
	assert.False(t, opp.Found)
	assert.True(t, opp.EstimatedProfit.IsZero())
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

var (
	usdc = asset.MustNewToken(asset.ChainIDPolygon, common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), "USDC", "USD Coin", 6)
	usdt = asset.MustNewToken(asset.ChainIDPolygon, common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"), "USDT", "Tether USD", 6)

	uni   = domain.Venue{Name: "uniswap", Selector: 0}
	sushi = domain.Venue{Name: "sushiswap", Selector: 1}
)

type stubProvider struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Quote(ctx context.Context, pair domain.Pair, amount asset.Amount, venue domain.Venue) (domain.Quote, error) {
	p.calls = append(p.calls, venue.Name)
	if err := p.errs[venue.Name]; err != nil {
		return domain.Quote{}, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return domain.Quote{}, errors.New("quote called without deadline")
	}
	out, err := asset.ParseString(pair.Quote, p.outputs[venue.Name])
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.NewQuote(venue, pair, amount, out, 0), nil
}

type staticPairs []domain.Pair

func (s staticPairs) Pairs(context.Context) ([]domain.Pair, error) { return s, nil }

func newService(t *testing.T, p QuoteProvider) *PricingService {
	t.Helper()
	svc, err := NewPricingService(p, staticPairs{domain.NewPair(usdc, usdt)}, []domain.Venue{uni, sushi}, time.Second, logger.Discard())
	require.NoError(t, err)
	return svc
}

func TestDifferentialQuotesBothVenuesInOrder(t *testing.T) {
	p := &stubProvider{outputs: map[string]string{"uniswap": "1000", "sushiswap": "995"}}
	svc := newService(t, p)

	amount, err := asset.ParseString(usdc, "1000")
	require.NoError(t, err)

	d, err := svc.Differential(context.Background(), domain.NewPair(usdc, usdt), amount)
	require.NoError(t, err)

	assert.Equal(t, []string{"uniswap", "sushiswap"}, p.calls)
	assert.Equal(t, "sushiswap", d.Cheap.Venue.Name)
	assert.Equal(t, "0.5025", d.Percent.StringFixed(4))
}

func TestDifferentialWrapsProviderErrors(t *testing.T) {
	p := &stubProvider{
		outputs: map[string]string{"uniswap": "1000"},
		errs:    map[string]error{"sushiswap": errors.New("execution reverted")},
	}
	svc := newService(t, p)

	amount, err := asset.ParseString(usdc, "1000")
	require.NoError(t, err)

	_, err = svc.Differential(context.Background(), domain.NewPair(usdc, usdt), amount)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeQuoteFailed, apperror.GetCode(err))
	assert.True(t, apperror.IsKind(err, apperror.KindTransient))
}

func TestNewPricingServiceNeedsTwoVenues(t *testing.T) {
	_, err := NewPricingService(&stubProvider{}, staticPairs{}, []domain.Venue{uni}, time.Second, logger.Discard())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConfig))
}

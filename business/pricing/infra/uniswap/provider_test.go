package uniswap

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// scriptedCaller answers successive CallContract calls from a script; a nil
// amount makes that call fail.
type scriptedCaller struct {
	t       *testing.T
	outputs []*big.Int
	calls   int
	to      []common.Address
}

func (c *scriptedCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.t.Helper()
	i := c.calls
	c.calls++
	c.to = append(c.to, *msg.To)
	if i >= len(c.outputs) || c.outputs[i] == nil {
		return nil, errors.New("execution reverted")
	}

	parsed, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		c.t.Fatal(err)
	}
	out, err := parsed.Methods["quoteExactInputSingle"].Outputs.Pack(c.outputs[i], big.NewInt(0), uint32(1), big.NewInt(90000))
	if err != nil {
		c.t.Fatal(err)
	}
	return out, nil
}

func testPair() domain.Pair {
	return domain.NewPair(asset.USDCe, asset.USDT)
}

func TestQuotePicksBestFeeTier(t *testing.T) {
	caller := &scriptedCaller{t: t, outputs: []*big.Int{big.NewInt(990_000_000), nil, big.NewInt(1_000_000_000)}}
	p, err := NewProvider(caller, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}

	quoter := common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	venue := domain.Venue{Name: "uniswap", Quoter: quoter, FeeTiers: []int{500, 3000, 10000}}
	amount, _ := asset.ParseString(asset.USDCe, "1000")

	q, err := p.Quote(context.Background(), testPair(), amount, venue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.FeeTier != 10000 {
		t.Errorf("expected fee tier 10000, got %d", q.FeeTier)
	}
	if q.Converted().String() != "1000" {
		t.Errorf("expected 1000 USDT out, got %s", q.Converted())
	}
	if caller.calls != 3 {
		t.Errorf("expected one call per fee tier, got %d", caller.calls)
	}
	for _, to := range caller.to {
		if to != quoter {
			t.Errorf("call sent to %s, want venue quoter", to.Hex())
		}
	}
}

func TestQuoteNoPool(t *testing.T) {
	caller := &scriptedCaller{t: t}
	p, err := NewProvider(caller, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}

	venue := domain.Venue{Name: "sushiswap", Quoter: common.HexToAddress("0xb1E835Dc2785b52265711e17fCCb0fd018226a6e")}
	amount, _ := asset.ParseString(asset.USDCe, "1000")

	_, err = p.Quote(context.Background(), testPair(), amount, venue)
	if apperror.GetCode(err) != apperror.CodePoolNotFound {
		t.Fatalf("expected pool not found, got %v", err)
	}
	if caller.calls != len(DefaultFeeTiers) {
		t.Errorf("expected default fee tiers to be tried, got %d calls", caller.calls)
	}
}

func TestQuoteRequiresQuoterAddress(t *testing.T) {
	p, err := NewProvider(&scriptedCaller{t: t}, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	amount, _ := asset.ParseString(asset.USDCe, "1")

	_, err = p.Quote(context.Background(), testPair(), amount, domain.Venue{Name: "nowhere"})
	if apperror.GetCode(err) != apperror.CodeUnknownVenue {
		t.Fatalf("expected unknown venue, got %v", err)
	}
}

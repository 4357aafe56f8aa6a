package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"

	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

type fakeGasClient struct {
	price     *big.Int
	gas       uint64
	err       error
	priceHits int
}

func (c *fakeGasClient) SuggestGasPrice(context.Context) (*big.Int, error) {
	c.priceHits++
	return c.price, c.err
}

func (c *fakeGasClient) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return c.gas, c.err
}

func newTestOracle(t *testing.T, client GasClient, cfg GasOracleConfig) *GasOracle {
	t.Helper()
	g, err := NewGasOracle(cfg, client, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestGasPriceIsCachedButLiveIsNot(t *testing.T) {
	client := &fakeGasClient{price: big.NewInt(40e9)}
	g := newTestOracle(t, client, GasOracleConfig{CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		p, err := g.GasPrice(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if p.Gwei() != 40 {
			t.Fatalf("expected 40 gwei, got %v", p.Gwei())
		}
	}
	if client.priceHits != 1 {
		t.Errorf("expected 1 node call for cached reads, got %d", client.priceHits)
	}

	if _, err := g.LiveGasPrice(context.Background()); err != nil {
		t.Fatal(err)
	}
	if client.priceHits != 2 {
		t.Errorf("live price should bypass cache, got %d calls", client.priceHits)
	}
}

func TestGasPriceCapped(t *testing.T) {
	client := &fakeGasClient{price: big.NewInt(900e9)}
	g := newTestOracle(t, client, GasOracleConfig{CacheTTL: time.Second, MaxGasPrice: big.NewInt(500e9)})

	p, err := g.LiveGasPrice(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.Gwei() != 500 {
		t.Errorf("expected cap of 500 gwei, got %v", p.Gwei())
	}
}

func TestEstimateGasAddsMargin(t *testing.T) {
	g := newTestOracle(t, &fakeGasClient{gas: 300_000}, DefaultGasOracleConfig())

	gas, err := g.EstimateGas(context.Background(), ethereum.CallMsg{})
	if err != nil {
		t.Fatal(err)
	}
	if gas != 330_000 {
		t.Errorf("expected 330000, got %d", gas)
	}
}

func TestGasErrorsAreClassified(t *testing.T) {
	g := newTestOracle(t, &fakeGasClient{err: errors.New("dial tcp: refused")}, DefaultGasOracleConfig())

	_, err := g.GasPrice(context.Background())
	if apperror.GetCode(err) != apperror.CodeGasPriceUnavailable {
		t.Errorf("expected gas price unavailable, got %v", err)
	}

	_, err = g.EstimateGas(context.Background(), ethereum.CallMsg{})
	if !apperror.IsKind(err, apperror.KindExecution) {
		t.Errorf("estimate failure should be an execution error, got %v", err)
	}
}

package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestFlashloanCallRoundTrip(t *testing.T) {
	call := FlashloanCall{
		Asset:        common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
		Amount:       big.NewInt(5_000_000_000),
		Dex:          1,
		Intermediate: common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"),
		Fee:          3000,
	}

	data, err := call.Pack()
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	// selector + 5 static words
	if len(data) != 4+5*32 {
		t.Fatalf("unexpected calldata length %d", len(data))
	}

	got, err := UnpackFlashloanCall(data)
	if err != nil {
		t.Fatalf("UnpackFlashloanCall() error: %v", err)
	}
	if got.Asset != call.Asset || got.Intermediate != call.Intermediate {
		t.Errorf("addresses mismatch: %+v", got)
	}
	if got.Amount.Cmp(call.Amount) != 0 || got.Dex != 1 || got.Fee != 3000 {
		t.Errorf("values mismatch: %+v", got)
	}
}

func TestFlashloanCallValidate(t *testing.T) {
	base := FlashloanCall{
		Asset:  common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
		Amount: big.NewInt(1),
		Fee:    500,
	}

	tests := []struct {
		name    string
		mutate  func(*FlashloanCall)
		wantErr bool
	}{
		{name: "valid", mutate: func(*FlashloanCall) {}},
		{name: "zero_amount", mutate: func(c *FlashloanCall) { c.Amount = big.NewInt(0) }, wantErr: true},
		{name: "nil_amount", mutate: func(c *FlashloanCall) { c.Amount = nil }, wantErr: true},
		{name: "fee_overflow", mutate: func(c *FlashloanCall) { c.Fee = 1 << 24 }, wantErr: true},
		{name: "zero_asset", mutate: func(c *FlashloanCall) { c.Asset = common.Address{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGasEstimateTotals(t *testing.T) {
	price := NewGasPrice(big.NewInt(30_000_000_000)) // 30 gwei
	est := NewGasEstimate(200_000, price)

	if price.Gwei() != 30 {
		t.Errorf("Gwei() = %v, want 30", price.Gwei())
	}
	if est.TotalWei().String() != "6000000000000000" {
		t.Errorf("TotalWei() = %s", est.TotalWei())
	}
	if est.TotalGwei() != 6_000_000 {
		t.Errorf("TotalGwei() = %v", est.TotalGwei())
	}
}

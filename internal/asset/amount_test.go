package asset_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/shopspring/decimal"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		token   *asset.Asset
		in      string
		wantRaw string
		wantErr error
	}{
		{"flashloan amount in USDC.e", asset.USDCe, "5000", "5000000000", nil},
		{"fractional", asset.USDT, "1.5", "1500000", nil},
		{"18 decimals", asset.DAI, "0.000000000000000001", "1", nil},
		{"too precise for 6 decimals", asset.USDCe, "1.1234567", "", asset.ErrTooManyDecimals},
		{"negative", asset.USDCe, "-1", "", asset.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.ParseString(tt.token, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseString() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseString() unexpected error: %v", err)
			}
			if got.Raw().String() != tt.wantRaw {
				t.Errorf("Raw() = %s, want %s", got.Raw(), tt.wantRaw)
			}
		})
	}
}

func TestParseStringRejectsGarbage(t *testing.T) {
	if _, err := asset.ParseString(asset.USDCe, "lots"); err == nil {
		t.Error("expected an error for a non-numeric amount")
	}
	if _, err := asset.ParseDecimal(nil, decimal.NewFromInt(1)); !errors.Is(err, asset.ErrNilAsset) {
		t.Errorf("ParseDecimal(nil) error = %v, want ErrNilAsset", err)
	}
}

func TestAmountDisplay(t *testing.T) {
	out := asset.NewAmount(asset.USDT, big.NewInt(995_000_000))

	if !out.ToDecimal().Equal(decimal.NewFromInt(995)) {
		t.Errorf("ToDecimal() = %s, want 995", out.ToDecimal())
	}
	if out.String() != "995 USDT" {
		t.Errorf("String() = %q, want %q", out.String(), "995 USDT")
	}
}

func TestRawIsACopy(t *testing.T) {
	amount := asset.NewAmount(asset.USDCe, big.NewInt(1_000_000))

	amount.Raw().SetInt64(0)

	if amount.Raw().Int64() != 1_000_000 {
		t.Errorf("mutating Raw() changed the amount to %s", amount.Raw())
	}
}

func TestRegistry_ResolveUnknownToken(t *testing.T) {
	r := asset.DefaultRegistry()

	known := r.Resolve(asset.ChainIDPolygon, asset.AddrUSDTPolygon, 18)
	if known != asset.USDT {
		t.Fatalf("expected registered USDT, got %s", known)
	}

	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	first := r.Resolve(asset.ChainIDPolygon, addr, 6)
	if first.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", first.Decimals())
	}
	if first.Name() != first.Symbol() {
		t.Errorf("Name() = %q, want the symbol for an unnamed token", first.Name())
	}
	if again := r.Resolve(asset.ChainIDPolygon, addr, 18); again != first {
		t.Error("expected the same asset on second resolve")
	}

	if _, ok := r.GetToken(asset.ChainIDAmoy, addr); ok {
		t.Error("the same address on another chain is a different token")
	}
}

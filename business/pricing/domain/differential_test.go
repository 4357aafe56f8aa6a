package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-bot/internal/asset"
)

var (
	testUSDC = asset.MustNewToken(asset.ChainIDPolygon, common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), "USDC", "USD Coin", 6)
	testUSDT = asset.MustNewToken(asset.ChainIDPolygon, common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F"), "USDT", "Tether USD", 6)
)

func quoteOf(t *testing.T, venue, out string) Quote {
	t.Helper()
	pair := NewPair(testUSDC, testUSDT)
	in, err := asset.ParseString(testUSDC, "1000")
	if err != nil {
		t.Fatal(err)
	}
	amountOut, err := asset.ParseString(testUSDT, out)
	if err != nil {
		t.Fatal(err)
	}
	return NewQuote(Venue{Name: venue}, pair, in, amountOut, 3000)
}

func TestDiffPercent(t *testing.T) {
	tests := []struct {
		name string
		q1   string
		q2   string
		want string
	}{
		{name: "equal_quotes", q1: "1000", q2: "1000", want: "0"},
		{name: "half_percent_gap", q1: "1000", q2: "995", want: "0.5025"},
		{name: "symmetric", q1: "995", q2: "1000", want: "0.5025"},
		{name: "tenth_percent_gap", q1: "1000", q2: "999", want: "0.1001"},
		{name: "both_zero", q1: "0", q2: "0", want: "0"},
		{name: "one_zero_no_panic", q1: "0", q2: "1000", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffPercent(decimal.RequireFromString(tt.q1), decimal.RequireFromString(tt.q2)).Round(4)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("DiffPercent() = %s, want %s", got, want)
			}
		})
	}
}

func TestCompareQuotes(t *testing.T) {
	tests := []struct {
		name          string
		uni           string
		sushi         string
		wantCheap     string
		wantExpensive string
	}{
		{name: "sushi_cheaper", uni: "1000.00", sushi: "995.00", wantCheap: "sushiswap", wantExpensive: "uniswap"},
		{name: "uni_cheaper", uni: "990.00", sushi: "1000.00", wantCheap: "uniswap", wantExpensive: "sushiswap"},
		{name: "tie_second_is_cheap", uni: "1000.00", sushi: "1000.00", wantCheap: "sushiswap", wantExpensive: "uniswap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CompareQuotes(quoteOf(t, "uniswap", tt.uni), quoteOf(t, "sushiswap", tt.sushi))
			if d.Cheap.Venue.Name != tt.wantCheap {
				t.Errorf("Cheap = %s, want %s", d.Cheap.Venue.Name, tt.wantCheap)
			}
			if d.Expensive.Venue.Name != tt.wantExpensive {
				t.Errorf("Expensive = %s, want %s", d.Expensive.Venue.Name, tt.wantExpensive)
			}
		})
	}
}

func TestEstimatedProfit(t *testing.T) {
	d := CompareQuotes(quoteOf(t, "uniswap", "1000"), quoteOf(t, "sushiswap", "995"))

	got := d.EstimatedProfit(decimal.NewFromInt(5000)).Round(2)
	want := decimal.RequireFromString("25.13") // 0.5025% of 5000
	if !got.Equal(want) {
		t.Errorf("EstimatedProfit() = %s, want %s", got, want)
	}
}

func TestPairString(t *testing.T) {
	p := NewPair(testUSDC, testUSDT)
	if p.String() != "USDC/USDT" {
		t.Errorf("String() = %s", p.String())
	}
	if p.Invert().String() != "USDT/USDC" {
		t.Errorf("Invert().String() = %s", p.Invert().String())
	}
}

package asset

import "github.com/ethereum/go-ethereum/common"

const (
	ChainIDPolygon = 137
	ChainIDAmoy    = 80002
)

// Polygon PoS token addresses, the flashloan contract's home chain.
var (
	AddrUSDCePolygon  = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174") // bridged USDC.e
	AddrUSDCPolygon   = common.HexToAddress("0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359") // native USDC
	AddrUSDTPolygon   = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrDAIPolygon    = common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
	AddrWETHPolygon   = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrWMATICPolygon = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	AddrWBTCPolygon   = common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6")
)

var (
	USDCe  = MustNewToken(ChainIDPolygon, AddrUSDCePolygon, "USDC.e", "Bridged USD Coin", 6)
	USDC   = MustNewToken(ChainIDPolygon, AddrUSDCPolygon, "USDC", "USD Coin", 6)
	USDT   = MustNewToken(ChainIDPolygon, AddrUSDTPolygon, "USDT", "Tether USD", 6)
	DAI    = MustNewToken(ChainIDPolygon, AddrDAIPolygon, "DAI", "Dai Stablecoin", 18)
	WETH   = MustNewToken(ChainIDPolygon, AddrWETHPolygon, "WETH", "Wrapped Ether", 18)
	WMATIC = MustNewToken(ChainIDPolygon, AddrWMATICPolygon, "WMATIC", "Wrapped Matic", 18)
	WBTC   = MustNewToken(ChainIDPolygon, AddrWBTCPolygon, "WBTC", "Wrapped Bitcoin", 8)
)

// DefaultRegistry returns a registry holding the well-known Polygon tokens.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []*Asset{USDCe, USDC, USDT, DAI, WETH, WMATIC, WBTC} {
		r.Register(a)
	}
	return r
}

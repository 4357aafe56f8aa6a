// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fd1az/flashloan-bot/internal/apperror"
)

// Strategy names.
const (
	StrategyDifferential = "differential"
	StrategyPredictive   = "predictive"
)

// Quote provider names.
const (
	QuoteProviderOnChain = "onchain"
	QuoteProviderOneInch = "oneinch"
)

// Prediction oracle kinds.
const (
	OracleLinear = "linear"
	OracleHTTP   = "http"
	OracleExec   = "exec"
)

// Ledger drivers.
const (
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Bot        BotConfig        `mapstructure:"bot"`
	Quotes     QuotesConfig     `mapstructure:"quotes"`
	Volatility VolatilityConfig `mapstructure:"volatility"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Server     ServerConfig     `mapstructure:"server"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds chain node, wallet and relay settings.
type EthereumConfig struct {
	HTTPURL         string        `mapstructure:"http_url"`
	ChainID         uint64        `mapstructure:"chain_id"`
	PrivateKey      string        `mapstructure:"private_key"`
	ContractAddress string        `mapstructure:"contract_address"`
	RelayURL        string        `mapstructure:"relay_url"`
	UseBundle       bool          `mapstructure:"use_bundle"`
	MaxGasPriceGwei int64         `mapstructure:"max_gas_price_gwei"`
	GasCacheTTL     time.Duration `mapstructure:"gas_cache_ttl"`
}

// ContractAddressHex returns the flashloan contract as common.Address.
func (c *EthereumConfig) ContractAddressHex() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// PairConfig is one token pair route.
type PairConfig struct {
	Token0 string `mapstructure:"token0" json:"token0"`
	Token1 string `mapstructure:"token1" json:"token1"`
}

// BotConfig holds the run policy of the control loop.
type BotConfig struct {
	TrainingMode       bool          `mapstructure:"training_mode"`
	Strategy           string        `mapstructure:"strategy"`
	FlashloanAmount    string        `mapstructure:"flashloan_amount"`
	MinProfitPercent   float64       `mapstructure:"min_profit_percent"`
	RunIntervalSeconds int           `mapstructure:"run_interval_seconds"`
	StopLossCount      int           `mapstructure:"stop_loss_count"`
	DailyTradeCap      int           `mapstructure:"daily_trade_cap"`
	CooldownMinutes    int           `mapstructure:"cooldown_minutes"`
	ActiveHours        string        `mapstructure:"active_hours"`
	MaxSlippagePercent float64       `mapstructure:"max_slippage_percent"`
	CallTimeout        time.Duration `mapstructure:"call_timeout"`
	InactiveBackoff    time.Duration `mapstructure:"inactive_backoff"`
	CooldownBackoff    time.Duration `mapstructure:"cooldown_backoff"`
	AutoStart          bool          `mapstructure:"auto_start"`

	// Default route used when no pairs are configured.
	Asset         string       `mapstructure:"asset"`
	Intermediate  string       `mapstructure:"intermediate"`
	AssetDecimals int          `mapstructure:"asset_decimals"`
	FeeTier       int          `mapstructure:"fee_tier"`
	Pairs         []PairConfig `mapstructure:"pairs"`
	PairsFile     string       `mapstructure:"pairs_file"`
}

// FlashloanAmountDecimal returns the borrow size as decimal.Decimal.
func (c *BotConfig) FlashloanAmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(c.FlashloanAmount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RunInterval returns the cadence between iterations.
func (c *BotConfig) RunInterval() time.Duration {
	return time.Duration(c.RunIntervalSeconds) * time.Second
}

// Cooldown returns the suspension applied after a failure.
func (c *BotConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// VenueConfig describes one liquidity source.
type VenueConfig struct {
	Name string `mapstructure:"name"`
	// Selector is the dex index understood by the flashloan contract.
	Selector uint8 `mapstructure:"selector"`
	// QuoterAddress is a QuoterV2 deployment (onchain provider).
	QuoterAddress string `mapstructure:"quoter_address"`
	// Protocol is the aggregator protocol filter (oneinch provider).
	Protocol string `mapstructure:"protocol"`
	FeeTiers []int  `mapstructure:"fee_tiers"`
}

// OneInchConfig holds the aggregator API settings.
type OneInchConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// QuotesConfig selects the quote provider and the two venues compared.
type QuotesConfig struct {
	Provider string        `mapstructure:"provider"`
	Venues   []VenueConfig `mapstructure:"venues"`
	OneInch  OneInchConfig `mapstructure:"oneinch"`
}

// VolatilityConfig configures the Binance volatility feed.
type VolatilityConfig struct {
	Method   string `mapstructure:"method"` // ticker or realized
	Symbol   string `mapstructure:"symbol"`
	Interval string `mapstructure:"interval"`
	Window   int    `mapstructure:"window"`
	BaseURL  string `mapstructure:"base_url"`
}

// LinearWeights are the coefficients of the in-process model.
type LinearWeights struct {
	Intercept  float64 `mapstructure:"intercept"`
	Amount     float64 `mapstructure:"amount"`
	Slippage   float64 `mapstructure:"slippage"`
	GasPrice   float64 `mapstructure:"gas_price"`
	Volatility float64 `mapstructure:"volatility"`
}

// OracleConfig selects the prediction oracle.
type OracleConfig struct {
	Kind    string        `mapstructure:"kind"`
	URL     string        `mapstructure:"url"`
	Command []string      `mapstructure:"command"`
	Linear  LinearWeights `mapstructure:"linear"`
}

// LedgerConfig selects the trade ledger store.
type LedgerConfig struct {
	Driver      string `mapstructure:"driver"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`
	// RecentSize is the length of the Redis recent-records list.
	RecentSize int64 `mapstructure:"recent_size"`
}

// RedisConfig is optional. When Addr is empty the recent-records read model and
// the cross-process signer lock are disabled.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// NotifyConfig holds alert channel settings.
type NotifyConfig struct {
	TelegramToken   string `mapstructure:"telegram_token"`
	TelegramChatID  string `mapstructure:"telegram_chat_id"`
	TelegramBaseURL string `mapstructure:"telegram_base_url"`
}

// ServerConfig holds the status and control server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	OTLPProtocol   string `mapstructure:"otlp_protocol"`
	PrometheusPort int    `mapstructure:"prometheus_port"`

	// OTLPMetricsEndpoint enables OTLP metric push alongside Prometheus.
	OTLPMetricsEndpoint string `mapstructure:"otlp_metrics_endpoint"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithCause(err),
				apperror.WithContext("failed to read config"))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("failed to unmarshal config"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("ethereum.http_url", "ARB_ETH_HTTP_URL", "RPC_URL")
	v.BindEnv("ethereum.chain_id", "ARB_ETH_CHAIN_ID", "CHAIN_ID")
	v.BindEnv("ethereum.private_key", "ARB_PRIVATE_KEY", "PRIVATE_KEY")
	v.BindEnv("ethereum.contract_address", "ARB_CONTRACT_ADDRESS", "CONTRACT_ADDRESS")
	v.BindEnv("ethereum.relay_url", "ARB_RELAY_URL", "PRIVATE_RELAY_URL")
	v.BindEnv("ethereum.use_bundle", "ARB_USE_BUNDLE", "USE_FLASHBOTS")

	// Bot policy
	v.BindEnv("bot.training_mode", "ARB_TRAINING_MODE", "TRAINING_MODE")
	v.BindEnv("bot.strategy", "ARB_STRATEGY", "STRATEGY")
	v.BindEnv("bot.flashloan_amount", "ARB_FLASHLOAN_AMOUNT", "FLASHLOAN_AMOUNT")
	v.BindEnv("bot.min_profit_percent", "ARB_MIN_PROFIT_PERCENT", "MIN_PROFIT_PERCENT")
	v.BindEnv("bot.run_interval_seconds", "ARB_RUN_INTERVAL_SEC", "RUN_INTERVAL_SEC")
	v.BindEnv("bot.stop_loss_count", "ARB_STOP_LOSS_COUNT", "STOP_LOSS_COUNT")
	v.BindEnv("bot.daily_trade_cap", "ARB_DAILY_TRADE_CAP", "DAILY_TRADE_CAP")
	v.BindEnv("bot.cooldown_minutes", "ARB_COOLDOWN_MINUTES", "COOLDOWN_MINUTES")
	v.BindEnv("bot.active_hours", "ARB_ACTIVE_HOURS", "ACTIVE_HOURS")
	v.BindEnv("bot.max_slippage_percent", "ARB_MAX_SLIPPAGE_PERCENT", "MAX_SLIPPAGE_PERCENT")
	v.BindEnv("bot.asset", "ARB_ASSET", "USDC_ADDRESS")
	v.BindEnv("bot.intermediate", "ARB_INTERMEDIATE", "USDT_ADDRESS")
	v.BindEnv("bot.fee_tier", "ARB_FEE_TIER", "UNISWAP_FEE")
	v.BindEnv("bot.pairs_file", "ARB_PAIRS_FILE", "PAIRS_FILE")
	v.BindEnv("bot.auto_start", "ARB_AUTO_START")

	// Quotes
	v.BindEnv("quotes.provider", "ARB_QUOTE_PROVIDER")
	v.BindEnv("quotes.oneinch.api_key", "ARB_ONEINCH_API_KEY", "ONEINCH_API_KEY")
	v.BindEnv("quotes.oneinch.base_url", "ARB_ONEINCH_BASE_URL")

	// Oracle
	v.BindEnv("oracle.kind", "ARB_ORACLE_KIND")
	v.BindEnv("oracle.url", "ARB_ORACLE_URL")

	// Ledger and cache
	v.BindEnv("ledger.driver", "ARB_LEDGER_DRIVER")
	v.BindEnv("ledger.database_url", "ARB_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("redis.addr", "ARB_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("redis.password", "ARB_REDIS_PASSWORD", "REDIS_PASSWORD")

	// Notify
	v.BindEnv("notify.telegram_token", "ARB_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("notify.telegram_chat_id", "ARB_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")

	// Server
	v.BindEnv("server.port", "ARB_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "ARB_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	v.BindEnv("telemetry.otlp_protocol", "OTEL_EXPORTER_OTLP_PROTOCOL")
	v.BindEnv("telemetry.otlp_metrics_endpoint", "ARB_OTEL_METRICS_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "flashloan-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Polygon defaults
	v.SetDefault("ethereum.chain_id", 137)
	v.SetDefault("ethereum.use_bundle", false)
	v.SetDefault("ethereum.max_gas_price_gwei", 1000)
	v.SetDefault("ethereum.gas_cache_ttl", "3s")

	// Bot policy defaults
	v.SetDefault("bot.training_mode", false)
	v.SetDefault("bot.strategy", StrategyDifferential)
	v.SetDefault("bot.flashloan_amount", "5000")
	v.SetDefault("bot.min_profit_percent", 0.5)
	v.SetDefault("bot.run_interval_seconds", 12)
	v.SetDefault("bot.stop_loss_count", 3)
	v.SetDefault("bot.daily_trade_cap", 10)
	v.SetDefault("bot.cooldown_minutes", 10)
	v.SetDefault("bot.active_hours", "")
	v.SetDefault("bot.max_slippage_percent", 0.5)
	v.SetDefault("bot.call_timeout", "10s")
	v.SetDefault("bot.inactive_backoff", "60s")
	v.SetDefault("bot.cooldown_backoff", "1s")
	v.SetDefault("bot.auto_start", true)
	v.SetDefault("bot.asset", "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")        // USDC.e
	v.SetDefault("bot.intermediate", "0xc2132D05D31c914a87C6611C10748AEb04B58e8F") // USDT
	v.SetDefault("bot.asset_decimals", 6)
	v.SetDefault("bot.fee_tier", 3000) // 0.3%

	// Quotes: Uniswap V3 vs SushiSwap V3 on Polygon
	v.SetDefault("quotes.provider", QuoteProviderOnChain)
	v.SetDefault("quotes.venues", []map[string]any{
		{
			"name":           "uniswap",
			"selector":       0,
			"quoter_address": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
			"protocol":       "UNISWAP_V3",
			"fee_tiers":      []int{500, 3000, 10000},
		},
		{
			"name":           "sushiswap",
			"selector":       1,
			"quoter_address": "0xb1E835Dc2785b52265711e17fCCb0fd018226a6e",
			"protocol":       "SUSHI",
			"fee_tiers":      []int{500, 3000, 10000},
		},
	})
	v.SetDefault("quotes.oneinch.base_url", "https://api.1inch.io")
	v.SetDefault("quotes.oneinch.requests_per_minute", 60)

	// Volatility
	v.SetDefault("volatility.method", "ticker")
	v.SetDefault("volatility.symbol", "ETHUSDT")
	v.SetDefault("volatility.interval", "1h")
	v.SetDefault("volatility.window", 24)

	// Oracle
	v.SetDefault("oracle.kind", OracleLinear)

	// Ledger
	v.SetDefault("ledger.driver", LedgerMemory)
	v.SetDefault("ledger.max_conns", 5)
	v.SetDefault("ledger.min_conns", 1)
	v.SetDefault("ledger.recent_size", 500)

	// Redis
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.lock_ttl", "30s")

	// Notify
	v.SetDefault("notify.telegram_base_url", "https://api.telegram.org")

	// Server
	v.SetDefault("server.port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flashloan-bot")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.otlp_protocol", "grpc")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate checks every constraint and reports all violations in a single
// CONFIGURATION_ERROR.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Ethereum.HTTPURL == "" {
		add("ethereum.http_url is required")
	}
	if !c.Bot.TrainingMode {
		if c.Ethereum.PrivateKey == "" {
			add("ethereum.private_key is required outside training mode")
		}
		if !common.IsHexAddress(c.Ethereum.ContractAddress) {
			add("invalid ethereum.contract_address: %q", c.Ethereum.ContractAddress)
		}
	}

	b := c.Bot
	switch b.Strategy {
	case StrategyDifferential, StrategyPredictive:
	default:
		add("bot.strategy must be %q or %q, got %q", StrategyDifferential, StrategyPredictive, b.Strategy)
	}
	amount, err := decimal.NewFromString(b.FlashloanAmount)
	if err != nil || !amount.IsPositive() {
		add("bot.flashloan_amount must be a positive decimal, got %q", b.FlashloanAmount)
	}
	if b.MinProfitPercent <= 0 {
		add("bot.min_profit_percent must be > 0")
	}
	if b.RunIntervalSeconds <= 0 {
		add("bot.run_interval_seconds must be > 0")
	}
	if b.StopLossCount <= 0 {
		add("bot.stop_loss_count must be > 0")
	}
	if b.DailyTradeCap < 0 {
		add("bot.daily_trade_cap must be >= 0")
	}
	if b.CooldownMinutes < 0 {
		add("bot.cooldown_minutes must be >= 0")
	}
	if b.MaxSlippagePercent < 0 {
		add("bot.max_slippage_percent must be >= 0")
	}
	if b.CallTimeout <= 0 {
		add("bot.call_timeout must be > 0")
	}
	if b.AssetDecimals < 0 || b.AssetDecimals > 30 {
		add("bot.asset_decimals out of range: %d", b.AssetDecimals)
	}
	if len(b.Pairs) == 0 && b.PairsFile == "" {
		if !common.IsHexAddress(b.Asset) || !common.IsHexAddress(b.Intermediate) {
			add("bot.asset and bot.intermediate must be addresses when no pairs are configured")
		}
	}
	for i, p := range b.Pairs {
		if !common.IsHexAddress(p.Token0) || !common.IsHexAddress(p.Token1) {
			add("bot.pairs[%d] has an invalid token address", i)
		}
	}

	// Both strategies need the pair of venues: the predictive one still picks
	// the on-chain dex from them.
	if len(c.Quotes.Venues) != 2 {
		add("quotes.venues must list exactly two venues, got %d", len(c.Quotes.Venues))
	}
	switch c.Quotes.Provider {
	case QuoteProviderOnChain:
		for _, venue := range c.Quotes.Venues {
			if !common.IsHexAddress(venue.QuoterAddress) {
				add("venue %s: invalid quoter_address %q", venue.Name, venue.QuoterAddress)
			}
		}
	case QuoteProviderOneInch:
		for _, venue := range c.Quotes.Venues {
			if venue.Protocol == "" {
				add("venue %s: protocol is required for the oneinch provider", venue.Name)
			}
		}
	default:
		add("quotes.provider must be %q or %q, got %q", QuoteProviderOnChain, QuoteProviderOneInch, c.Quotes.Provider)
	}

	if b.Strategy == StrategyPredictive {
		switch c.Oracle.Kind {
		case OracleLinear:
		case OracleHTTP:
			if c.Oracle.URL == "" {
				add("oracle.url is required for the http oracle")
			}
		case OracleExec:
			if len(c.Oracle.Command) == 0 {
				add("oracle.command is required for the exec oracle")
			}
		default:
			add("oracle.kind must be linear, http or exec, got %q", c.Oracle.Kind)
		}
	}

	switch c.Ledger.Driver {
	case LedgerMemory:
	case LedgerPostgres:
		if c.Ledger.DatabaseURL == "" {
			add("ledger.database_url is required for the postgres ledger")
		}
	default:
		add("ledger.driver must be postgres or memory, got %q", c.Ledger.Driver)
	}

	if len(problems) == 0 {
		return nil
	}
	return apperror.Config(strings.Join(problems, "; "))
}

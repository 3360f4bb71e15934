// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Quoter contract generations.
const (
	QuoterV1 = "v1"
	QuoterV2 = "v2"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Uniswap   UniswapConfig   `mapstructure:"uniswap"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL           string        `mapstructure:"http_url"`
	ChainID           uint64        `mapstructure:"chain_id"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables throttling
	Burst             int           `mapstructure:"burst"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
	Headers           string        `mapstructure:"headers"` // "k1=v1,k2=v2" sent with every RPC request
}

// UniswapConfig holds Uniswap V3 contract addresses.
type UniswapConfig struct {
	QuoterAddress  string `mapstructure:"quoter_address"`
	QuoterVersion  string `mapstructure:"quoter_version"`
	FactoryAddress string `mapstructure:"factory_address"`
}

// QuoterAddressHex returns the quoter address as common.Address.
func (c *UniswapConfig) QuoterAddressHex() common.Address {
	return common.HexToAddress(c.QuoterAddress)
}

// FactoryAddressHex returns the factory address as common.Address.
func (c *UniswapConfig) FactoryAddressHex() common.Address {
	return common.HexToAddress(c.FactoryAddress)
}

// QuoteConfig holds quote defaults.
type QuoteConfig struct {
	DefaultAmount     string        `mapstructure:"default_amount"`
	SignificantDigits int32         `mapstructure:"significant_digits"`
	WatchInterval     time.Duration `mapstructure:"watch_interval"`
	EngineCacheSize   int           `mapstructure:"engine_cache_size"`
	TokenCacheTTL     time.Duration `mapstructure:"token_cache_ttl"`
}

// DefaultAmountDecimal returns the default amount as decimal.Decimal.
func (c *QuoteConfig) DefaultAmountDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.DefaultAmount)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	Exporter       string `mapstructure:"exporter"` // zipkin, otlp-grpc, otlp-http, stdout
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds health probe settings.
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
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
	v.SetEnvPrefix("QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "QUOTER_APP_NAME", "SERVICE_NAME")
	_ = v.BindEnv("app.environment", "QUOTER_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("app.log_level", "QUOTER_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	_ = v.BindEnv("ethereum.http_url", "QUOTER_ETH_HTTP_URL", "ETH_HTTP_URL", "ETH_RPC_URL")
	_ = v.BindEnv("ethereum.chain_id", "QUOTER_ETH_CHAIN_ID", "ETH_CHAIN_ID")
	_ = v.BindEnv("ethereum.requests_per_second", "QUOTER_ETH_RPS")
	_ = v.BindEnv("ethereum.call_timeout", "QUOTER_ETH_CALL_TIMEOUT")
	_ = v.BindEnv("ethereum.headers", "QUOTER_ETH_HEADERS")

	// Uniswap
	_ = v.BindEnv("uniswap.quoter_address", "QUOTER_UNISWAP_QUOTER", "UNISWAP_QUOTER")
	_ = v.BindEnv("uniswap.quoter_version", "QUOTER_UNISWAP_QUOTER_VERSION")
	_ = v.BindEnv("uniswap.factory_address", "QUOTER_UNISWAP_FACTORY", "UNISWAP_FACTORY")

	// Quote
	_ = v.BindEnv("quote.default_amount", "QUOTER_DEFAULT_AMOUNT")
	_ = v.BindEnv("quote.watch_interval", "QUOTER_WATCH_INTERVAL")

	// Telemetry
	_ = v.BindEnv("telemetry.enabled", "QUOTER_OTEL_ENABLED", "OTEL_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "QUOTER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	_ = v.BindEnv("telemetry.otlp_endpoint", "QUOTER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "pool-quoter")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.requests_per_second", 10)
	v.SetDefault("ethereum.burst", 5)
	v.SetDefault("ethereum.call_timeout", "10s")

	// Uniswap V3 Mainnet defaults
	v.SetDefault("uniswap.quoter_address", "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6")
	v.SetDefault("uniswap.quoter_version", QuoterV1)
	v.SetDefault("uniswap.factory_address", "0x1F98431c8aD98523631AE4a59f267346ea31F984")

	// Quote defaults
	v.SetDefault("quote.default_amount", "0.0001")
	v.SetDefault("quote.significant_digits", 12)
	v.SetDefault("quote.watch_interval", "12s") // one block
	v.SetDefault("quote.engine_cache_size", 64)
	v.SetDefault("quote.token_cache_ttl", "1h")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "pool-quoter")
	v.SetDefault("telemetry.exporter", "zipkin")
	v.SetDefault("telemetry.prometheus_port", 9090)

	// Health defaults
	v.SetDefault("health.enabled", false)
	v.SetDefault("health.addr", ":8081")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("ethereum.http_url is required")
	}
	if c.Ethereum.RequestsPerSecond < 0 {
		return fmt.Errorf("ethereum.requests_per_second cannot be negative")
	}
	if !common.IsHexAddress(c.Uniswap.QuoterAddress) {
		return fmt.Errorf("invalid uniswap.quoter_address: %s", c.Uniswap.QuoterAddress)
	}
	if c.Uniswap.FactoryAddress != "" && !common.IsHexAddress(c.Uniswap.FactoryAddress) {
		return fmt.Errorf("invalid uniswap.factory_address: %s", c.Uniswap.FactoryAddress)
	}
	switch c.Uniswap.QuoterVersion {
	case QuoterV1, QuoterV2:
	default:
		return fmt.Errorf("uniswap.quoter_version must be %q or %q, got %q", QuoterV1, QuoterV2, c.Uniswap.QuoterVersion)
	}
	amount, err := decimal.NewFromString(c.Quote.DefaultAmount)
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("quote.default_amount must be a positive decimal: %q", c.Quote.DefaultAmount)
	}
	if c.Quote.SignificantDigits <= 0 {
		return fmt.Errorf("quote.significant_digits must be positive")
	}
	if c.Quote.WatchInterval <= 0 {
		return fmt.Errorf("quote.watch_interval must be positive")
	}
	return nil
}

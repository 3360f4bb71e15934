package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"QUOTER_ETH_HTTP_URL", "ETH_HTTP_URL", "ETH_RPC_URL", "QUOTER_UNISWAP_QUOTER_VERSION"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUOTER_ETH_HTTP_URL", "http://localhost:8545")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pool-quoter", cfg.App.Name)
	assert.Equal(t, "http://localhost:8545", cfg.Ethereum.HTTPURL)
	assert.Equal(t, uint64(1), cfg.Ethereum.ChainID)
	assert.Equal(t, 10*time.Second, cfg.Ethereum.CallTimeout)
	assert.Equal(t, QuoterV1, cfg.Uniswap.QuoterVersion)
	assert.Equal(t, "0.0001", cfg.Quote.DefaultAmount)
	assert.Equal(t, int32(12), cfg.Quote.SignificantDigits)
	assert.Equal(t, "0.0001", cfg.Quote.DefaultAmountDecimal().String())
}

func TestLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETH_RPC_URL", "http://node:8545")
	t.Setenv("QUOTER_UNISWAP_QUOTER_VERSION", "v2")
	t.Setenv("QUOTER_UNISWAP_QUOTER", "0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	t.Setenv("QUOTER_ETH_HEADERS", "X-Api-Key=secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://node:8545", cfg.Ethereum.HTTPURL)
	assert.Equal(t, QuoterV2, cfg.Uniswap.QuoterVersion)
	assert.Equal(t, "0x61fFE014bA17989E743c5F6cB21bF9697530B21e", cfg.Uniswap.QuoterAddressHex().Hex())
	assert.Equal(t, "X-Api-Key=secret", cfg.Ethereum.Headers)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
ethereum:
  http_url: http://file:8545
  call_timeout: 3s
quote:
  default_amount: "1.5"
  watch_interval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://file:8545", cfg.Ethereum.HTTPURL)
	assert.Equal(t, 3*time.Second, cfg.Ethereum.CallTimeout)
	assert.Equal(t, "1.5", cfg.Quote.DefaultAmount)
	assert.Equal(t, 30*time.Second, cfg.Quote.WatchInterval)
}

func TestLoad_MissingURL(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ethereum.http_url")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Ethereum: EthereumConfig{HTTPURL: "http://localhost:8545"},
			Uniswap: UniswapConfig{
				QuoterAddress: "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6",
				QuoterVersion: QuoterV1,
			},
			Quote: QuoteConfig{DefaultAmount: "0.0001", SignificantDigits: 12, WatchInterval: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"bad quoter address", func(c *Config) { c.Uniswap.QuoterAddress = "0x123" }, false},
		{"bad quoter version", func(c *Config) { c.Uniswap.QuoterVersion = "v3" }, false},
		{"bad factory", func(c *Config) { c.Uniswap.FactoryAddress = "nope" }, false},
		{"zero amount", func(c *Config) { c.Quote.DefaultAmount = "0" }, false},
		{"garbage amount", func(c *Config) { c.Quote.DefaultAmount = "abc" }, false},
		{"negative rps", func(c *Config) { c.Ethereum.RequestsPerSecond = -1 }, false},
		{"no digits", func(c *Config) { c.Quote.SignificantDigits = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: \"9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "mainnet-beta", cfg.Network.Cluster)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
	assert.EqualValues(t, 10000, cfg.CoinGecko.RequestTimeoutMillis)
	assert.Equal(t, "usd", cfg.CoinGecko.VsCurrency)
	assert.Equal(t, 5, cfg.TokenPriceSvc.CacheTTLMinutes)
	assert.Equal(t, 100, cfg.TokenPriceSvc.MaxTokensPerBatchRequest)
	assert.Equal(t, 10, cfg.Performance.RPCCallTimeoutSeconds)
	assert.Equal(t, "/swagger", cfg.Swagger.Path)
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
logging:
  level: debug
network:
  cluster: devnet
  rpcURL: https://rpc.example.org
  fallbackRPCURLs: [https://backup.example.org]
  commitment: finalized
coingecko:
  apiKey: secret
  rateLimitPerSecond: 0.5
  symbolMapping:
    JUP: jupiter-exchange-solana
tokenPriceService:
  cacheTTLMinutes: 1
  fallbackPrices:
    USDC: 1.0
performance:
  rpc_call_timeout_seconds: 3
wallet:
  address: 9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "devnet", cfg.Network.Cluster)
	assert.Equal(t, []string{"https://backup.example.org"}, cfg.Network.FallbackRPCURLs)
	assert.Equal(t, "finalized", cfg.Network.Commitment)
	assert.Equal(t, "secret", cfg.CoinGecko.APIKey)
	assert.Equal(t, 1, cfg.CoinGecko.RateLimitBurst)
	assert.Equal(t, "jupiter-exchange-solana", cfg.CoinGecko.SymbolMapping["JUP"])
	assert.Equal(t, 1, cfg.TokenPriceSvc.CacheTTLMinutes)
	assert.Equal(t, 1.0, cfg.TokenPriceSvc.FallbackPrices["USDC"])
	assert.Equal(t, 3, cfg.Performance.RPCCallTimeoutSeconds)
	assert.Equal(t, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", cfg.Wallet.Address)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "tokenPriceService:\n  fallbackPrices:\n    USDC: 0\n"))
	assert.ErrorContains(t, err, "fallback price")
}

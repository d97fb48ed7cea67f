package configloader

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yml"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NetworkConfig selects the Solana cluster and its endpoints.
type NetworkConfig struct {
	Cluster         string   `yaml:"cluster"` // mainnet-beta, devnet or testnet
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRPCURLs"`
	Commitment      string   `yaml:"commitment"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string            `yaml:"apiKey"`
	BaseURL              string            `yaml:"baseURL"`
	RequestTimeoutMillis int64             `yaml:"requestTimeoutMillis"`
	VsCurrency           string            `yaml:"vsCurrency"`
	RateLimitPerSecond   float64           `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int               `yaml:"rateLimitBurst"`
	SymbolMapping        map[string]string `yaml:"symbolMapping"`
}

// TokenPriceServiceConfig holds configuration for the price resolver.
type TokenPriceServiceConfig struct {
	MaxTokensPerBatchRequest int                `yaml:"maxTokensPerBatchRequest"`
	CacheTTLMinutes          int                `yaml:"cacheTTLMinutes"`
	FallbackPrices           map[string]float64 `yaml:"fallbackPrices"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	RPCCallTimeoutSeconds int `yaml:"rpc_call_timeout_seconds"`
}

// TokensConfig points at the token registry extension file.
type TokensConfig struct {
	RegistryFile string `yaml:"registryFile"`
}

// WalletConfig selects the wallet connected at start-up.
type WalletConfig struct {
	Address string `yaml:"address"`
	File    string `yaml:"file"`
}

// SwaggerConfig controls the Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	SpecFile string `yaml:"specFile"`
}

// DebugConfig controls debugging endpoints.
type DebugConfig struct {
	PprofEnabled bool `yaml:"pprofEnabled"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig            `yaml:"server"`
	Logging       LoggingConfig           `yaml:"logging"`
	Network       NetworkConfig           `yaml:"network"`
	CoinGecko     CoinGeckoConfig         `yaml:"coingecko"`
	TokenPriceSvc TokenPriceServiceConfig `yaml:"tokenPriceService"`
	Performance   PerformanceConfig       `yaml:"performance"`
	Tokens        TokensConfig            `yaml:"tokens"`
	Wallet        WalletConfig            `yaml:"wallet"`
	Swagger       SwaggerConfig           `yaml:"swagger"`
	Debug         DebugConfig             `yaml:"debug"`
}

// Load reads the YAML configuration file from the given path and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Network.Cluster == "" {
		cfg.Network.Cluster = "mainnet-beta"
		logrus.Infof("Network.Cluster not set, defaulting to %s", cfg.Network.Cluster)
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("CoinGecko.BaseURL not set, defaulting to %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
		logrus.Infof("CoinGecko.RequestTimeoutMillis not set, defaulting to %d ms", cfg.CoinGecko.RequestTimeoutMillis)
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.RateLimitPerSecond > 0 && cfg.CoinGecko.RateLimitBurst <= 0 {
		cfg.CoinGecko.RateLimitBurst = 1
	}

	if cfg.TokenPriceSvc.MaxTokensPerBatchRequest <= 0 {
		cfg.TokenPriceSvc.MaxTokensPerBatchRequest = 100
		logrus.Infof("MaxTokensPerBatchRequest for TokenPriceSvc not set, defaulting to %d", cfg.TokenPriceSvc.MaxTokensPerBatchRequest)
	}
	if cfg.TokenPriceSvc.CacheTTLMinutes <= 0 {
		cfg.TokenPriceSvc.CacheTTLMinutes = 5
		logrus.Infof("CacheTTLMinutes for TokenPriceSvc not set, defaulting to %d minutes", cfg.TokenPriceSvc.CacheTTLMinutes)
	}

	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}
}

func validate(cfg *Config) error {
	for sym, price := range cfg.TokenPriceSvc.FallbackPrices {
		if price <= 0 {
			return fmt.Errorf("fallback price for %s must be positive, got %v", sym, price)
		}
	}
	if cfg.Wallet.Address != "" && cfg.Wallet.File != "" {
		logrus.Warnf("Both wallet.address and wallet.file are set; wallet.address takes precedence")
	}
	return nil
}

package configloader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"neo_wallet/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "CONFIG_PATH"

// DefaultPath is used when EnvConfigPath is unset.
const DefaultPath = "config/config.yml"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port               string   `yaml:"port"`
	ReadTimeoutSeconds int      `yaml:"readTimeoutSeconds"`
	AllowedOrigins     []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// WalletConfig describes the active wallet. Wallet files are not read.
type WalletConfig struct {
	Address    string `yaml:"address"`
	Label      string `yaml:"label"`
	IsHardware bool   `yaml:"isLedger"`
	PublicKey  string `yaml:"publicKey"`
	PrivateKey string `yaml:"privateKey"`
}

// NetworkConfig selects the active network.
type NetworkConfig struct {
	Active string `yaml:"active"`
}

// DisplayConfig holds UI-independent display preferences.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// IndexerConfig configures the indexer and neoscan HTTP clients.
type IndexerConfig struct {
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
}

// ValuationConfig configures the price API client.
type ValuationConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// SignerConfig configures the remote signing backend.
type SignerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RpcClientConfig holds configuration for RPC and HTTP clients.
type RpcClientConfig struct {
	DefaultTimeoutMs int64   `yaml:"defaultTimeoutMs"`
	RateLimit        float64 `yaml:"rateLimit"` // requests per second
	BurstLimit       int     `yaml:"burstLimit"`
	MaxRetries       int     `yaml:"maxRetries"`
}

// CacheConfig holds configuration for caching.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"`
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
}

// TimeoutsConfig holds the delays of the write paths, in milliseconds.
type TimeoutsConfig struct {
	ConfirmationInitialDelayMs int64 `yaml:"confirmationInitialDelayMs"`
	ConfirmationPollIntervalMs int64 `yaml:"confirmationPollIntervalMs"`
	CallbackDelayMs            int64 `yaml:"callbackDelayMs"`
	ClaimSettleDelayMs         int64 `yaml:"claimSettleDelayMs"`
	ClaimIntervalMs            int64 `yaml:"claimIntervalMs"`
	HistorySyncIntervalMs      int64 `yaml:"historySyncIntervalMs"`
}

// TokensConfig points at per-network token list files.
type TokensConfig struct {
	Directory string `yaml:"directory"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig               `yaml:"server"`
	Logging     LoggingConfig              `yaml:"logging"`
	Wallet      WalletConfig               `yaml:"wallet"`
	Network     NetworkConfig              `yaml:"network"`
	Networks    []entity.NetworkDefinition `yaml:"networks"`
	Display     DisplayConfig              `yaml:"display"`
	Indexer     IndexerConfig              `yaml:"indexer"`
	Valuation   ValuationConfig            `yaml:"valuation"`
	Signer      SignerConfig               `yaml:"signer"`
	RpcClient   RpcClientConfig            `yaml:"rpcClient"`
	Cache       CacheConfig                `yaml:"cache"`
	Performance PerformanceConfig          `yaml:"performance"`
	Timeouts    TimeoutsConfig             `yaml:"timeouts"`
	Tokens      TokensConfig               `yaml:"tokens"`
}

// ResolvePath returns the config path from the environment or the default.
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data: %v", err)
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Network.Active == "" {
		cfg.Network.Active = entity.MainNet
		logrus.Infof("Network.Active not set, defaulting to %s", cfg.Network.Active)
	}
	if cfg.Display.Currency == "" {
		cfg.Display.Currency = "USD"
		logrus.Infof("Display.Currency not set, defaulting to %s", cfg.Display.Currency)
	}
	cfg.Display.Currency = strings.ToUpper(cfg.Display.Currency)

	if cfg.Indexer.RequestTimeoutMillis <= 0 {
		cfg.Indexer.RequestTimeoutMillis = 10000
	}
	if cfg.Valuation.BaseURL == "" {
		cfg.Valuation.BaseURL = "https://api.coinmarketcap.com/v1"
		logrus.Infof("Valuation.BaseURL not set, defaulting to %s", cfg.Valuation.BaseURL)
	}
	if cfg.Valuation.RequestTimeoutMillis <= 0 {
		cfg.Valuation.RequestTimeoutMillis = 10000
	}
	if cfg.Signer.RequestTimeoutMillis <= 0 {
		cfg.Signer.RequestTimeoutMillis = 30000
	}

	if cfg.RpcClient.DefaultTimeoutMs <= 0 {
		cfg.RpcClient.DefaultTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit <= 0 {
		cfg.RpcClient.RateLimit = 20
		logrus.Infof("RpcClient.RateLimit not set, defaulting to %.0f req/s", cfg.RpcClient.RateLimit)
	}
	if cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 10
	}
	if cfg.RpcClient.MaxRetries < 0 {
		cfg.RpcClient.MaxRetries = 0
	}

	if cfg.Cache.DefaultExpirationMinutes <= 0 {
		cfg.Cache.DefaultExpirationMinutes = 5
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}
	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
		logrus.Infof("Performance.MaxConcurrentRoutines not set, defaulting to %d", cfg.Performance.MaxConcurrentRoutines)
	}

	t := &cfg.Timeouts
	if t.ConfirmationInitialDelayMs <= 0 {
		t.ConfirmationInitialDelayMs = 15000
	}
	if t.ConfirmationPollIntervalMs <= 0 {
		t.ConfirmationPollIntervalMs = 1000
	}
	if t.CallbackDelayMs <= 0 {
		t.CallbackDelayMs = 5000
	}
	if t.ClaimSettleDelayMs <= 0 {
		t.ClaimSettleDelayMs = 30000
	}
	if t.ClaimIntervalMs <= 0 {
		t.ClaimIntervalMs = 5 * 60 * 1000
	}
	if t.HistorySyncIntervalMs <= 0 {
		t.HistorySyncIntervalMs = 10000
	}
	if cfg.Tokens.Directory == "" {
		cfg.Tokens.Directory = "data/tokens"
	}
}

func validate(cfg *Config) error {
	for _, n := range cfg.Networks {
		if n.Name == "" {
			return fmt.Errorf("network entry without name")
		}
		if n.RPCURL == "" && len(n.FallbackRPCURLs) == 0 {
			logrus.Warnf("Network '%s' has no RPC URL configured, built-in endpoints will be used.", n.Name)
		}
	}
	if cfg.Wallet.Address == "" {
		logrus.Warn("Wallet.Address is empty; write operations will be rejected.")
	}
	return nil
}

// Duration converts a millisecond setting.
func Duration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// CurrentWallet builds the active wallet from config.
func (c *Config) CurrentWallet() entity.Wallet {
	return entity.Wallet{
		Address:    strings.TrimSpace(c.Wallet.Address),
		Label:      c.Wallet.Label,
		IsHardware: c.Wallet.IsHardware,
		PublicKey:  c.Wallet.PublicKey,
		PrivateKey: c.Wallet.PrivateKey,
	}
}

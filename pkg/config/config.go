package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. YIELDSENSE_REDIS_HOST.
const EnvPrefix = "YIELDSENSE"

type Config struct {
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT"`
	Server      struct {
		Port            int           `yaml:"port" envconfig:"PORT"`
		ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	} `yaml:"server" envconfig:"SERVER"`
	Log struct {
		Level  string `yaml:"level" envconfig:"LEVEL"`
		Format string `yaml:"format" envconfig:"FORMAT"`
		Output string `yaml:"output" envconfig:"OUTPUT"`
	} `yaml:"log" envconfig:"LOG"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
		Path    string `yaml:"path" envconfig:"PATH"`
	} `yaml:"metrics" envconfig:"METRICS"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
		Host     string `yaml:"host" envconfig:"HOST"`
		Port     int    `yaml:"port" envconfig:"PORT"`
		Password string `yaml:"password" envconfig:"PASSWORD"`
		DB       int    `yaml:"db" envconfig:"DB"`
		Prefix   string `yaml:"prefix" envconfig:"PREFIX"`
	} `yaml:"redis" envconfig:"REDIS"`
	Cache struct {
		Backend       string        `yaml:"backend" envconfig:"BACKEND"`
		AnalysisTTL   time.Duration `yaml:"analysis_ttl" envconfig:"ANALYSIS_TTL"`
		NewsTTL       time.Duration `yaml:"news_ttl" envconfig:"NEWS_TTL"`
		MemoryMaxSize int           `yaml:"memory_max_size" envconfig:"MEMORY_MAX_SIZE"`
	} `yaml:"cache" envconfig:"CACHE"`
	DexScreener struct {
		BaseURL       string        `yaml:"base_url" envconfig:"BASE_URL"`
		ChainID       string        `yaml:"chain_id" envconfig:"CHAIN_ID"`
		Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		TopPairs      int           `yaml:"top_pairs" envconfig:"TOP_PAIRS"`
		RatePerMinute int           `yaml:"rate_per_minute" envconfig:"RATE_PER_MINUTE"`
	} `yaml:"dexscreener" envconfig:"DEXSCREENER"`
	CryptoPanic struct {
		BaseURL      string        `yaml:"base_url" envconfig:"BASE_URL"`
		APIKeys      []string      `yaml:"api_keys" envconfig:"API_KEYS"`
		Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		MaxHeadlines int           `yaml:"max_headlines" envconfig:"MAX_HEADLINES"`
	} `yaml:"cryptopanic" envconfig:"CRYPTOPANIC"`
	Models struct {
		ServiceURL     string        `yaml:"service_url" envconfig:"SERVICE_URL"`
		Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		MaxConcurrent  int           `yaml:"max_concurrent" envconfig:"MAX_CONCURRENT"`
		TokenMaxLength int           `yaml:"token_max_length" envconfig:"TOKEN_MAX_LENGTH"`
	} `yaml:"models" envconfig:"MODELS"`
	Analysis struct {
		RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	} `yaml:"analysis" envconfig:"ANALYSIS"`
	Privacy struct {
		NoiseScale float64 `yaml:"noise_scale" envconfig:"NOISE_SCALE"`
	} `yaml:"privacy" envconfig:"PRIVACY"`
	Canary struct {
		Window    time.Duration `yaml:"window" envconfig:"WINDOW"`
		Threshold int64         `yaml:"threshold" envconfig:"THRESHOLD"`
	} `yaml:"canary" envconfig:"CANARY"`
	Staking struct {
		ServiceURL string        `yaml:"service_url" envconfig:"SERVICE_URL"`
		Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	} `yaml:"staking" envconfig:"STAKING"`
	Kafka struct {
		Enabled     bool          `yaml:"enabled" envconfig:"ENABLED"`
		Brokers     []string      `yaml:"brokers" envconfig:"BROKERS"`
		AlertsTopic string        `yaml:"alerts_topic" envconfig:"ALERTS_TOPIC"`
		LogsTopic   string        `yaml:"logs_topic" envconfig:"LOGS_TOPIC"`
		Linger      time.Duration `yaml:"linger" envconfig:"LINGER"`
	} `yaml:"kafka" envconfig:"KAFKA"`
	Ticker struct {
		Enabled  bool          `yaml:"enabled" envconfig:"ENABLED"`
		Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
	} `yaml:"ticker" envconfig:"TICKER"`
}

// Default returns a configuration usable without any file.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Server.Port = 8000
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 40 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
	c.Redis.Prefix = "yieldsense"
	c.Cache.Backend = "memory"
	c.Cache.AnalysisTTL = 60 * time.Second
	c.Cache.NewsTTL = 120 * time.Second
	c.Cache.MemoryMaxSize = 1000
	c.DexScreener.BaseURL = "https://api.dexscreener.com"
	c.DexScreener.ChainID = "solana"
	c.DexScreener.Timeout = 5 * time.Second
	c.DexScreener.TopPairs = 3
	c.DexScreener.RatePerMinute = 300
	c.CryptoPanic.BaseURL = "https://cryptopanic.com/api/developer/v2"
	c.CryptoPanic.Timeout = 5 * time.Second
	c.CryptoPanic.MaxHeadlines = 10
	c.Models.Timeout = 10 * time.Second
	c.Models.MaxConcurrent = 4
	c.Models.TokenMaxLength = 128
	c.Analysis.RequestTimeout = 30 * time.Second
	c.Privacy.NoiseScale = 0.1
	c.Canary.Window = 10 * time.Second
	c.Canary.Threshold = 20
	c.Staking.Timeout = 5 * time.Second
	c.Kafka.AlertsTopic = "yieldsense.probe-alerts"
	c.Kafka.LogsTopic = "yieldsense.logs"
	c.Kafka.Linger = 50 * time.Millisecond
	c.Ticker.Interval = 15 * time.Second
	return c
}

// Load reads and parses a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file falls back to defaults so the service can run from env alone.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		c = Default()
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered", "none":
	default:
		return fmt.Errorf("cache.backend must be one of memory, redis, layered, none; got '%s'", c.Cache.Backend)
	}
	if (c.Cache.Backend == "redis" || c.Cache.Backend == "layered") && !c.Redis.Enabled {
		return fmt.Errorf("cache.backend '%s' requires redis.enabled", c.Cache.Backend)
	}
	if c.DexScreener.BaseURL == "" {
		return fmt.Errorf("dexscreener.base_url is required")
	}
	if c.DexScreener.ChainID == "" {
		return fmt.Errorf("dexscreener.chain_id is required")
	}
	if c.DexScreener.TopPairs <= 0 {
		return fmt.Errorf("dexscreener.top_pairs must be positive")
	}
	if c.CryptoPanic.MaxHeadlines <= 0 {
		return fmt.Errorf("cryptopanic.max_headlines must be positive")
	}
	if c.Privacy.NoiseScale < 0 {
		return fmt.Errorf("privacy.noise_scale cannot be negative")
	}
	if c.Canary.Window <= 0 || c.Canary.Threshold <= 0 {
		return fmt.Errorf("canary.window and canary.threshold must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Ticker.Enabled && c.Ticker.Interval <= 0 {
		return fmt.Errorf("ticker.interval must be positive")
	}
	return nil
}

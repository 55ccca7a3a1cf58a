package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\nserver:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "solana", cfg.DexScreener.ChainID)
	assert.Equal(t, 60*time.Second, cfg.Cache.AnalysisTTL)
	assert.Equal(t, 0.1, cfg.Privacy.NoiseScale)
	assert.Equal(t, int64(20), cfg.Canary.Threshold)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\ncache:\n  news_ttl: 30s\n")
	t.Setenv("YIELDSENSE_CRYPTOPANIC_API_KEYS", "k1,k2,k3")
	t.Setenv("YIELDSENSE_CACHE_NEWS_TTL", "45s")
	t.Setenv("YIELDSENSE_SERVER_PORT", "8123")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.CryptoPanic.APIKeys)
	assert.Equal(t, 45*time.Second, cfg.Cache.NewsTTL)
	assert.Equal(t, 8123, cfg.Server.Port)
}

func TestLoadWithEnvMissingFile(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"redis backend without redis": func(c *Config) { c.Cache.Backend = "redis" },
		"unknown backend":             func(c *Config) { c.Cache.Backend = "disk" },
		"kafka without brokers":       func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil },
		"negative noise":              func(c *Config) { c.Privacy.NoiseScale = -1 },
		"zero top pairs":              func(c *Config) { c.DexScreener.TopPairs = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1500, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 120*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 512, cfg.QueryCacheSize)
	assert.InDelta(t, 5.0, cfg.EmbeddingRPS, 1e-12)

	// Per-token defaults derived from published per-1M prices.
	assert.InDelta(t, 3.0/1_000_000, cfg.ClaudeInputCostPerToken, 1e-12)
	assert.InDelta(t, 0.60/1_000_000, cfg.OpenAIOutputCostPerToken, 1e-12)
}

func TestLoad_MissingProviderKeys(t *testing.T) {
	t.Run("anthropic key required", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("openai key required", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
		t.Setenv("OPENAI_API_KEY", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("TOP_K", "3")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "30")
	t.Setenv("EMBEDDING_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.InDelta(t, 0.5, cfg.EmbeddingRPS, 1e-12)
}

func TestLoad_InvalidSegmentation(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, "data/index_store.gob", cfg.Index.ArtifactPath)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
api:
  port: 9090
retrieval:
  top_k: 8
session:
  backend: redis
  redis:
    addr: redis.internal:6379
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := Load(path)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Session.Redis.Addr)

	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, "intents.json", cfg.Corpus.IntentsFile)
}

func TestLoadEnvAPIKeyOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, "sk-test-key", cfg.Generation.OpenAI.APIKey)
}

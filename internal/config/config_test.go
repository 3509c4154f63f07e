package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Batch.Concurrency)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 10000, cfg.Server.MaxBatch)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Fetch.SizeCap)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.HostInterval)
	assert.True(t, cfg.Fetch.RespectRobots)
	assert.False(t, cfg.Fetch.AllowPrivate)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Lexicon.StopwordsFile)
}

func TestEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FEATURES_BATCH_CONCURRENCY", "8")
	t.Setenv("FEATURES_LOGGING_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.yaml")
	yaml := `
lexicon:
  stopwords_file: /tmp/stop.txt
batch:
  concurrency: 3
server:
  addr: ":9090"
  read_timeout: 2s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stop.txt", cfg.Lexicon.StopwordsFile)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep defaults
	assert.Equal(t, 10000, cfg.Server.MaxBatch)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  concurrency: -1\n"), 0o644))
	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "batch.concurrency")

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "logging.format")
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "config", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/expki/go-olapcache/config"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.ParseConfig([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, config.DEFAULT_HTTP_ADDRESS, cfg.Server.HttpAddress)
	assert.Equal(t, config.CACHE_DURATION, cfg.Cache.TTL.Duration())
	assert.Equal(t, config.StorageDriver_Cassandra, cfg.Storage.Driver)
	assert.Equal(t, []string{"127.0.0.1"}, []string(cfg.Storage.Hosts))
	assert.Equal(t, config.CASSANDRA_KEYSPACE, cfg.Storage.Keyspace)
	assert.Equal(t, config.CASSANDRA_PROTOCOL, cfg.Storage.ProtocolVersion)
	assert.Equal(t, config.STORAGE_TIMEOUT, cfg.Storage.Timeout.Duration())
	assert.Equal(t, config.FETCH_SIZE_DEFAULT, cfg.Storage.FetchSize)
	assert.Equal(t, config.LOOKUP_CONCURRENCY, cfg.Storage.Concurrency)
	assert.True(t, cfg.Warm.IsEnabled())
	assert.Equal(t, config.LogLevelInfo, cfg.LogLevel)
}

func TestParseConfigValues(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"server": {"http_address": ":9000"},
		"storage": {
			"driver": "postgres",
			"postgres": "postgres://localhost/olap",
			"postgres_readonly": ["postgres://replica-1/olap", "postgres://replica-2/olap"],
			"timeout": "5s",
			"concurrency": -1
		},
		"cache": {"ttl": 90, "single_flight": true},
		"warm": {"enabled": false, "views": ["genre_month"]},
		"log_level": "warning"
	}`)
	cfg, err := config.ParseConfig(raw)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.HttpAddress)
	assert.Equal(t, []string{"postgres://localhost/olap"}, []string(cfg.Storage.Postgres))
	assert.Len(t, cfg.Storage.PostgresReadOnly, 2)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout.Duration())
	assert.Equal(t, 0, cfg.Storage.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL.Duration())
	assert.True(t, cfg.Cache.SingleFlight)
	assert.False(t, cfg.Warm.IsEnabled())
	assert.Equal(t, []string{"genre_month"}, cfg.Warm.Views)
	assert.Equal(t, zap.WarnLevel, cfg.LogLevel.Zap().Level())

	readwrite, readonly := cfg.Storage.GetDialectors()
	assert.Len(t, readwrite, 1)
	assert.Len(t, readonly, 2)
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()

	_, err := config.ParseConfig([]byte(`{"storage": {"driver": "mongo"}}`))
	assert.ErrorContains(t, err, `unknown storage driver "mongo"`)

	_, err = config.ParseConfig([]byte(`{"storage": {"driver": "sqlite"}}`))
	assert.ErrorContains(t, err, "sqlite requires a database path")

	_, err = config.ParseConfig([]byte(`{"cache": {"ttl": "soon"}}`))
	assert.ErrorContains(t, err, `parse duration "soon"`)
}

func TestLogLevelZap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zap.DebugLevel, config.LogLevel("trace").Zap().Level())
	assert.Equal(t, zap.InfoLevel, config.LogLevel("INFO").Zap().Level())
	assert.Equal(t, zap.ErrorLevel, config.LogLevel("verbose").Zap().Level())
}

func TestCreateSample(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, config.CreateSample(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := config.ParseConfig(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Storage.Compression)
	assert.Equal(t, []string{"genre_month", "artist_month", "city_genre"}, cfg.Warm.Views)
}

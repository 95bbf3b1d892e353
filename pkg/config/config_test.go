package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with database url set", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ratings")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8090", cfg.Port)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, 750, cfg.FMP.CallsPerMinute)
		assert.Equal(t, 3, cfg.Collector.Workers)
		assert.Equal(t, 50, cfg.Collector.BatchSize)
		assert.Equal(t, 300, cfg.Collector.LookbackDays)
		assert.Equal(t, "SPY", cfg.BenchmarkTicker)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ratings")
		t.Setenv("ENV", "production")
		t.Setenv("FMP_CALLS_PER_MINUTE", "300")
		t.Setenv("COLLECTOR_WORKERS", "8")
		t.Setenv("BENCHMARK_TICKER", "QQQ")
		t.Setenv("REDIS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, 300, cfg.FMP.CallsPerMinute)
		assert.Equal(t, 8, cfg.Collector.Workers)
		assert.Equal(t, "QQQ", cfg.BenchmarkTicker)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("missing database url fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("invalid env fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ratings")
		t.Setenv("ENV", "qa")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive rate budget fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ratings")
		t.Setenv("FMP_CALLS_PER_MINUTE", "0")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed int falls back to default", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ratings")
		t.Setenv("COLLECTOR_BATCH_SIZE", "fifty")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.Collector.BatchSize)
	})
}

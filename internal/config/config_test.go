package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/purchase-engine/internal/common"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadStorageConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadStorageConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "purchase-sessions.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadStorageConfigOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("storage.backend", "redis")
	viper.Set("storage.redis.addr", "redis.internal:6380")
	viper.Set("storage.redis.db", 2)
	viper.Set("storage.session_ttl", "90m")

	cfg, err := LoadStorageConfig()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestLoadStorageConfigUnknownBackend(t *testing.T) {
	resetViper(t)
	viper.Set("storage.backend", "dynamo")

	_, err := LoadStorageConfig()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadKafkaConfig(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		resetViper(t)

		cfg, err := LoadKafkaConfig()
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "purchase-bi-events", cfg.Topic)
	})

	t.Run("enabled requires brokers", func(t *testing.T) {
		resetViper(t)
		viper.Set("kafka.enabled", true)

		_, err := LoadKafkaConfig()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("enabled with brokers", func(t *testing.T) {
		resetViper(t)
		viper.Set("kafka.enabled", true)
		viper.Set("kafka.brokers", []string{"broker-1:9092", "broker-2:9092"})
		viper.Set("kafka.topic", "bi")

		cfg, err := LoadKafkaConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
		assert.Equal(t, "bi", cfg.Topic)
	})
}

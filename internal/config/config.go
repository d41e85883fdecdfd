// Package config provides configuration loading for the purchase engine.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/meridianlabs/purchase-engine/internal/common"
)

// StorageConfig selects and configures the session store backend.
type StorageConfig struct {
	// Backend is "sqlite" or "redis".
	Backend string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
}

// KafkaConfig configures the BI event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// DefaultStorageConfig returns the defaults used when the config file is
// silent.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:    "sqlite",
		SQLitePath: "purchase-sessions.db",
		RedisAddr:  "localhost:6379",
		SessionTTL: 30 * time.Minute,
	}
}

// LoadStorageConfig loads the session store configuration from viper,
// falling back to defaults.
func LoadStorageConfig() (StorageConfig, error) {
	cfg := DefaultStorageConfig()

	if v := viper.GetString("storage.backend"); v != "" {
		cfg.Backend = v
	}
	if v := viper.GetString("storage.sqlite.path"); v != "" {
		cfg.SQLitePath = ExpandPath(v)
	}
	if v := viper.GetString("storage.redis.addr"); v != "" {
		cfg.RedisAddr = v
	}
	if v := viper.GetString("storage.redis.password"); v != "" {
		cfg.RedisPassword = v
	}
	if viper.IsSet("storage.redis.db") {
		cfg.RedisDB = viper.GetInt("storage.redis.db")
	}
	if v := viper.GetDuration("storage.session_ttl"); v > 0 {
		cfg.SessionTTL = v
	}

	switch cfg.Backend {
	case "sqlite", "redis":
	default:
		return StorageConfig{}, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, cfg.Backend)
	}
	return cfg, nil
}

// LoadKafkaConfig loads the event publisher configuration from viper.
func LoadKafkaConfig() (KafkaConfig, error) {
	cfg := KafkaConfig{
		Topic:   "purchase-bi-events",
		Enabled: viper.GetBool("kafka.enabled"),
	}

	if v := viper.GetStringSlice("kafka.brokers"); len(v) > 0 {
		cfg.Brokers = v
	}
	if v := viper.GetString("kafka.topic"); v != "" {
		cfg.Topic = v
	}

	if cfg.Enabled && len(cfg.Brokers) == 0 {
		return KafkaConfig{}, fmt.Errorf("%w: kafka.brokers", common.ErrMissingConfig)
	}
	return cfg, nil
}

package config

import (
	"os"
	"strconv"
	"time"
)

// RedisConfig enables the latest-snapshot cache when Addr is set
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	Channel  string        `yaml:"channel"`
	TTL      time.Duration `yaml:"ttl"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{
		Key:     "weather:latest",
		Channel: "weather_updates",
	}
}

func (r *RedisConfig) applyEnv() {
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			r.DB = parsed
		}
	}

	r.Addr = getEnv("REDIS_ADDR", r.Addr)
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.Key = getEnv("REDIS_KEY", r.Key)
	r.Channel = getEnv("REDIS_CHANNEL", r.Channel)
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

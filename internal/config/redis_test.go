package config

import (
	"testing"
)

func TestRedisConfig_FromEnvVars(t *testing.T) {
	t.Setenv("REDIS_ADDR", "testhost:6380")
	t.Setenv("REDIS_PASSWORD", "testpassword")
	t.Setenv("REDIS_DB", "5")
	t.Setenv("REDIS_KEY", "test:key")
	t.Setenv("REDIS_CHANNEL", "test_channel")

	cfg := defaultRedisConfig()
	cfg.applyEnv()

	if cfg.Addr != "testhost:6380" {
		t.Errorf("RedisConfig.Addr = %v, want %v", cfg.Addr, "testhost:6380")
	}
	if cfg.Password != "testpassword" {
		t.Errorf("RedisConfig.Password = %v, want %v", cfg.Password, "testpassword")
	}
	if cfg.DB != 5 {
		t.Errorf("RedisConfig.DB = %v, want %v", cfg.DB, 5)
	}
	if cfg.Key != "test:key" {
		t.Errorf("RedisConfig.Key = %v, want %v", cfg.Key, "test:key")
	}
	if cfg.Channel != "test_channel" {
		t.Errorf("RedisConfig.Channel = %v, want %v", cfg.Channel, "test_channel")
	}
	if !cfg.Enabled() {
		t.Error("RedisConfig.Enabled() = false, want true")
	}
}

func TestRedisConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := defaultRedisConfig()
	cfg.applyEnv()

	if cfg.Addr != "" {
		t.Errorf("RedisConfig.Addr = %v, want empty string", cfg.Addr)
	}
	if cfg.Key != "weather:latest" {
		t.Errorf("RedisConfig.Key = %v, want %v", cfg.Key, "weather:latest")
	}
	if cfg.Channel != "weather_updates" {
		t.Errorf("RedisConfig.Channel = %v, want %v", cfg.Channel, "weather_updates")
	}
	if cfg.Enabled() {
		t.Error("RedisConfig.Enabled() = true, want false without an address")
	}
}

func TestRedisConfig_InvalidDB(t *testing.T) {
	t.Setenv("REDIS_DB", "invalid")

	cfg := defaultRedisConfig()
	cfg.applyEnv()

	if cfg.DB != 0 {
		t.Errorf("RedisConfig.DB = %v, want %v (default on parse error)", cfg.DB, 0)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "env var set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "env var not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

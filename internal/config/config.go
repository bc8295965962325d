package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProfile   = "campus"
	DefaultOutput    = "weather.json"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "UniversityWeatherBot/1.0"
	DefaultBaseURL   = "https://api.open-meteo.com/v1/forecast"
)

var (
	instance *Config
	once     sync.Once
)

type Config struct {
	Profile  string             `yaml:"profile"`
	Profiles map[string]Profile `yaml:"profiles"`
	Output   struct {
		Path string `yaml:"path"`
	} `yaml:"output"`
	HTTP struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"http"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
	TextfilePath   string `yaml:"textfile_path"`
}

// Default returns the configuration used when no config file exists:
// the campus profile, written to ./weather.json, no optional sinks.
func Default() *Config {
	cfg := &Config{
		Profile:  DefaultProfile,
		Profiles: BuiltinProfiles(),
	}
	cfg.Output.Path = DefaultOutput
	cfg.HTTP.BaseURL = DefaultBaseURL
	cfg.HTTP.Timeout = DefaultTimeout
	cfg.HTTP.UserAgent = DefaultUserAgent
	cfg.Redis = defaultRedisConfig()
	cfg.Metrics.Job = "weathersnap"
	return cfg
}

// Load reads configPath over the defaults, then applies .env and environment overrides.
// A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = Default()

		if envErr := godotenv.Load(); envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
			err = fmt.Errorf("failed to load .env: %w", envErr)
			return
		}

		data, readErr := os.ReadFile(configPath)
		switch {
		case errors.Is(readErr, fs.ErrNotExist):
			log.Printf("Config file %s not found, using built-in defaults", configPath)
		case readErr != nil:
			err = fmt.Errorf("failed to read config file %s: %w", configPath, readErr)
			return
		default:
			if parseErr := yaml.Unmarshal(data, instance); parseErr != nil {
				err = fmt.Errorf("failed to parse config: %w", parseErr)
				return
			}
		}

		instance.applyEnv()

		if validateErr := instance.validate(); validateErr != nil {
			err = validateErr
			return
		}
	})

	return instance, err
}

func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

// ActiveProfile returns the selected profile with its Name filled in
func (c *Config) ActiveProfile() (Profile, error) {
	p, ok := c.Profiles[c.Profile]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", c.Profile)
	}
	p.Name = c.Profile
	return p, nil
}

func (c *Config) applyEnv() {
	c.Profile = getEnv("WEATHER_PROFILE", c.Profile)
	c.Output.Path = getEnv("WEATHER_OUTPUT", c.Output.Path)
	c.Metrics.PushgatewayURL = getEnv("PUSHGATEWAY_URL", c.Metrics.PushgatewayURL)
	c.Metrics.TextfilePath = getEnv("METRICS_TEXTFILE", c.Metrics.TextfilePath)
	c.Redis.applyEnv()
	c.Database.applyEnv()
}

func (c *Config) validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("output.path cannot be empty")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}

	p, err := c.ActiveProfile()
	if err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

// UseProfile switches the active profile and re-validates
func (c *Config) UseProfile(name string) error {
	c.Profile = name
	return c.validate()
}

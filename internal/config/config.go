package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service settings
type Config struct {
	Port        string      `yaml:"port"`
	DatabaseURL string      `yaml:"databaseUrl"`
	Env         string      `yaml:"env"`
	Voice       VoiceConfig `yaml:"voice"`
	RateLimit   RateLimit   `yaml:"rateLimit"`
}

// VoiceConfig configures the voice/telephony REST API
type VoiceConfig struct {
	CallURL string        `yaml:"callUrl"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimit bounds call initiation per tenant
type RateLimit struct {
	PerSecond float64 `yaml:"perSecond"`
	Burst     int     `yaml:"burst"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Port:        "8080",
		DatabaseURL: "./voxdesk.db",
		Env:         "development",
		Voice: VoiceConfig{
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimit{PerSecond: 1, Burst: 5},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	overrideFromEnv(&cfg)
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	cfg.Port = envOrDefault("PORT", cfg.Port)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.Env = envOrDefault("APP_ENV", cfg.Env)
	cfg.Voice.CallURL = envOrDefault("VOICE_API_URL", cfg.Voice.CallURL)
	cfg.Voice.APIKey = envOrDefault("VOICE_API_KEY", cfg.Voice.APIKey)
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

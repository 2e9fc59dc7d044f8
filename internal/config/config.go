package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, parsed from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	JWT    JWTConfig
	Google GoogleConfig
	Kafka  KafkaConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

type JWTConfig struct {
	// SigningKey must be at least 256 bits; startup fails otherwise.
	SigningKey string `env:"JWT_SIGNING_KEY"`
	Issuer     string `env:"JWT_ISSUER" envDefault:"learning-service"`
	Audience   string `env:"JWT_AUDIENCE" envDefault:"learning-service-api"`
}

type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"learning-events"`
}

// LoadConfig reads .env (if present) and the process environment, then
// validates the result. Configuration errors fail startup.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; the environment may be set by the platform.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.JWT.SigningKey) < 32 {
		return fmt.Errorf("JWT_SIGNING_KEY must be at least 32 bytes")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps the configured level name onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

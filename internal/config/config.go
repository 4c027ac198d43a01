// Package config loads server configuration from the environment. Command
// line flags in cmd/gestextintor take precedence over these values.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/erazemk/gestextintor/internal/advice"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Config is the complete server configuration.
type Config struct {
	DBPath  string `env:"GESTEXTINTOR_DB"      envDefault:"gestextintor.db"`
	Addr    string `env:"GESTEXTINTOR_ADDR"    envDefault:":8080"`
	LogPath string `env:"GESTEXTINTOR_LOG"`
	Backend string `env:"GESTEXTINTOR_BACKEND" envDefault:"sqlite"`

	Advice Advice
}

// Advice configures the safety advice client.
type Advice struct {
	APIKey      string        `env:"GESTEXTINTOR_ADVICE_API_KEY"`
	Model       string        `env:"GESTEXTINTOR_ADVICE_MODEL"       envDefault:"gemini-3-flash-preview"`
	URL         string        `env:"GESTEXTINTOR_ADVICE_URL"         envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout     time.Duration `env:"GESTEXTINTOR_ADVICE_TIMEOUT"     envDefault:"30s"`
	Temperature float64       `env:"GESTEXTINTOR_ADVICE_TEMPERATURE" envDefault:"0.7"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	if c.Advice.Timeout <= 0 {
		return fmt.Errorf("advice timeout must be positive, got %s", c.Advice.Timeout)
	}
	return nil
}

// ClientConfig converts the advice settings for advice.NewClient.
func (a Advice) ClientConfig() advice.Config {
	return advice.Config{
		BaseURL:     a.URL,
		Model:       a.Model,
		APIKey:      a.APIKey,
		Temperature: a.Temperature,
		Timeout:     a.Timeout,
	}
}

// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Remote low-confidence policies.
const (
	PolicyCrossCheck = "crosscheck"
	PolicyTrust      = "trust"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	HTTPPort   int    `env:"HTTP_PORT" envDefault:"8080"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8081"`

	// Remote classifier. An empty API key selects the no-op classifier and
	// the service runs on rules alone.
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	LLMModel      string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`
	RateLimitRPS  float64       `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Arbitration thresholds and policy. A remote answer at or above the
	// high threshold is trusted outright; below the low threshold it is
	// retained only as a fallback candidate.
	RemoteHighConfidence float64 `env:"REMOTE_HIGH_CONFIDENCE" envDefault:"0.60"`
	RemoteLowConfidence  float64 `env:"REMOTE_LOW_CONFIDENCE" envDefault:"0.60"`
	RemoteLowConfPolicy  string  `env:"REMOTE_LOW_CONF_POLICY" envDefault:"crosscheck"`

	MaxEmailChars int `env:"MAX_EMAIL_CHARS" envDefault:"20000"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RemoteHighConfidence < 0 || c.RemoteHighConfidence > 1 {
		return fmt.Errorf("REMOTE_HIGH_CONFIDENCE must be in [0,1], got %v", c.RemoteHighConfidence)
	}

	if c.RemoteLowConfidence < 0 || c.RemoteLowConfidence > 1 {
		return fmt.Errorf("REMOTE_LOW_CONFIDENCE must be in [0,1], got %v", c.RemoteLowConfidence)
	}

	if c.RemoteHighConfidence < c.RemoteLowConfidence {
		return fmt.Errorf("REMOTE_HIGH_CONFIDENCE (%v) must be >= REMOTE_LOW_CONFIDENCE (%v)",
			c.RemoteHighConfidence, c.RemoteLowConfidence)
	}

	if c.RemoteLowConfPolicy != PolicyCrossCheck && c.RemoteLowConfPolicy != PolicyTrust {
		return fmt.Errorf("REMOTE_LOW_CONF_POLICY must be %q or %q, got %q",
			PolicyCrossCheck, PolicyTrust, c.RemoteLowConfPolicy)
	}

	if c.MaxEmailChars <= 0 {
		return fmt.Errorf("MAX_EMAIL_CHARS must be positive, got %d", c.MaxEmailChars)
	}

	return nil
}

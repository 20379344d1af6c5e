package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds application configuration
type Config struct {
	GarminUsername string        `env:"GARMIN_USERNAME"`
	GarminPassword string        `env:"GARMIN_PASSWORD"`
	Domain         string        `env:"GARMIN_DOMAIN" envDefault:"garmin.com" validate:"oneof=garmin.com garmin.cn"`
	TokenDir       string        `env:"GARMIN_TOKEN_DIR" envDefault:".garminconnect" validate:"required"`
	DatabasePath   string        `env:"GARMIN_DATABASE_PATH" envDefault:"garmin.db" validate:"required"`
	DownloadDir    string        `env:"GARMIN_DOWNLOAD_DIR" envDefault:"downloads" validate:"required"`
	LogLevel       string        `env:"GARMIN_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	Timeout        time.Duration `env:"GARMIN_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	PageSize       int           `env:"GARMIN_PAGE_SIZE" envDefault:"100" validate:"gte=1,lte=1000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. Credentials are optional here since most
// commands run from stored tokens; see RequireCredentials.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireCredentials fails unless both username and password are set.
func (c *Config) RequireCredentials() error {
	if c.GarminUsername == "" || c.GarminPassword == "" {
		return fmt.Errorf("GARMIN_USERNAME and GARMIN_PASSWORD (or --username/--password) are required")
	}
	return nil
}

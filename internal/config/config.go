package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	Timezone  string `mapstructure:"CLINIC_TIMEZONE"`
	PageSize  int    `mapstructure:"CLINIC_PAGE_SIZE"`
	SeedFile  string `mapstructure:"CLINIC_SEED_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "") // auto-detect from ENV
	v.SetDefault("CLINIC_TIMEZONE", "Local")
	v.SetDefault("CLINIC_PAGE_SIZE", 20)
	v.SetDefault("CLINIC_SEED_FILE", "")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FORMAT")
	v.BindEnv("CLINIC_TIMEZONE")
	v.BindEnv("CLINIC_PAGE_SIZE")
	v.BindEnv("CLINIC_SEED_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ResolvedLogFormat returns LOG_FORMAT when set, otherwise "console" in
// development and "json" elsewhere.
func (c *Config) ResolvedLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.IsDev() {
		return "console"
	}
	return "json"
}

// Location resolves CLINIC_TIMEZONE. Typed dates are interpreted in this zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("CLINIC_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that every setting is usable before the clinic starts.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if f := c.ResolvedLogFormat(); f != "json" && f != "console" {
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("CLINIC_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

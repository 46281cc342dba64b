// Package config handles loading and managing application configuration
// from YAML files, an optional .env file and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/qrlogo/qr"
)

// Defaults are the symbol parameters the web form and CLI start with.
type Defaults struct {
	BoxSize    int      `yaml:"box_size"`
	Border     int      `yaml:"border"`
	Level      qr.Level `yaml:"level"`
	Foreground qr.Color `yaml:"foreground"`
	Background qr.Color `yaml:"background"`
}

// Params converts the defaults into pipeline parameters.
func (d Defaults) Params() qr.Params {
	return qr.Params{
		BoxSize:    d.BoxSize,
		Border:     d.Border,
		Level:      d.Level,
		Foreground: d.Foreground,
		Background: d.Background,
	}
}

// Config holds all application configuration values.
type Config struct {
	Port           int      `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	VerifyOutput   bool     `yaml:"verify_output"`
	ReadTimeout    Duration `yaml:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout"`
	IdleTimeout    Duration `yaml:"idle_timeout"`
	Defaults       Defaults `yaml:"defaults"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a Config populated with sensible default values.
func Default() *Config {
	p := qr.DefaultParams()
	return &Config{
		Port:           8555,
		LogLevel:       "info",
		MaxUploadBytes: 10 << 20,
		VerifyOutput:   true,
		ReadTimeout:    Duration{30 * time.Second},
		WriteTimeout:   Duration{60 * time.Second},
		IdleTimeout:    Duration{120 * time.Second},
		Defaults: Defaults{
			BoxSize:    p.BoxSize,
			Border:     p.Border,
			Level:      p.Level,
			Foreground: p.Foreground,
			Background: p.Background,
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded first; QRLOGO_ environment variables then override any file or
// default values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist, proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies QRLOGO_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("QRLOGO_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_PORT: %w", err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("QRLOGO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRLOGO_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QRLOGO_MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("QRLOGO_VERIFY_OUTPUT"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.VerifyOutput = true
		case "false", "0", "no":
			cfg.VerifyOutput = false
		}
	}
	if v := os.Getenv("QRLOGO_BOX_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_BOX_SIZE: %w", err)
		}
		cfg.Defaults.BoxSize = n
	}
	if v := os.Getenv("QRLOGO_BORDER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_BORDER: %w", err)
		}
		cfg.Defaults.Border = n
	}
	if v := os.Getenv("QRLOGO_LEVEL"); v != "" {
		l, err := qr.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_LEVEL: %w", err)
		}
		cfg.Defaults.Level = l
	}
	if v := os.Getenv("QRLOGO_FOREGROUND"); v != "" {
		c, err := qr.ParseColor(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_FOREGROUND: %w", err)
		}
		cfg.Defaults.Foreground = c
	}
	if v := os.Getenv("QRLOGO_BACKGROUND"); v != "" {
		c, err := qr.ParseColor(v)
		if err != nil {
			return fmt.Errorf("QRLOGO_BACKGROUND: %w", err)
		}
		cfg.Defaults.Background = c
	}
	return nil
}

// Validate checks the values that cannot be silently corrected.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if err := c.Defaults.Params().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

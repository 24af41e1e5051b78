package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-ledger/internal/money"
)

// EnvAddr overrides ServerConfig.Addr when set.
const EnvAddr = "STATEMENT_LEDGER_ADDR"

// Config represents the statement-ledger.yaml configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Format FormatConfig `yaml:"format"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	StaticDir          string        `yaml:"static_dir,omitempty"`
	BodyLimitMB        int           `yaml:"body_limit_mb"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

// FormatConfig controls how recalculated amounts are rendered.
type FormatConfig struct {
	Locale string `yaml:"locale"` // BCP 47, e.g. "en" or "en-IN"
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			BodyLimitMB:        32,
			SessionIdleTimeout: 30 * time.Minute,
		},
		Format: FormatConfig{
			Locale: money.DefaultLocale,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults. The EnvAddr variable, if set, wins over the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be positive, got %d", c.Server.BodyLimitMB)
	}
	if c.Server.SessionIdleTimeout < 0 {
		return fmt.Errorf("server.session_idle_timeout must not be negative")
	}
	if _, err := money.NewFormatter(c.Format.Locale); err != nil {
		return fmt.Errorf("format.locale: %w", err)
	}
	return nil
}

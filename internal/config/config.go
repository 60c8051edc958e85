// Package config loads the repoctl application configuration from defaults,
// an optional YAML file, and SCHEMAREPO_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level repoctl config.
type Config struct {
	Registry RegistryConfig `koanf:"registry"`
	Log      LogConfig      `koanf:"log"`
	Export   ExportConfig   `koanf:"export"`
	Sync     SyncConfig     `koanf:"sync"`
}

// RegistryConfig holds the repository connection settings.
type RegistryConfig struct {
	URL       string `koanf:"url"`
	Timeout   string `koanf:"timeout"` // Go duration; "0" disables the client-side timeout
	UserAgent string `koanf:"user_agent"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// ExportConfig holds settings for the export command.
type ExportConfig struct {
	Format  string `koanf:"format"` // json | yaml
	Out     string `koanf:"out"`    // output path, "-" for stdout
	Workers int    `koanf:"workers"`
}

// SyncConfig holds settings for the sync command.
type SyncConfig struct {
	ValidatorClass string `koanf:"validator_class"`
	Validate       bool   `koanf:"validate"`
}

// TimeoutDuration returns the parsed request timeout. Only meaningful after
// Validate has accepted the config.
func (c RegistryConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Registry.URL) == "" {
		return fmt.Errorf("registry.url is required")
	}
	if c.Registry.Timeout != "" {
		d, err := time.ParseDuration(c.Registry.Timeout)
		if err != nil {
			return fmt.Errorf("invalid registry.timeout %q: %w", c.Registry.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("registry.timeout must be >= 0")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}
	if c.Export.Format != "json" && c.Export.Format != "yaml" {
		return fmt.Errorf("invalid export.format %q (must be json or yaml)", c.Export.Format)
	}
	if strings.TrimSpace(c.Export.Out) == "" {
		return fmt.Errorf("export.out is required")
	}
	if c.Export.Workers <= 0 {
		return fmt.Errorf("export.workers must be > 0")
	}
	return nil
}

// Load parses config from defaults, then the optional YAML file, then
// SCHEMAREPO_* env vars (double underscore separates nested keys, e.g.
// SCHEMAREPO_REGISTRY__URL), and validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"registry.url":         "http://localhost:2876/schema-repo",
		"registry.timeout":     "30s",
		"registry.user_agent":  "repoctl",
		"log.level":            "info",
		"export.format":        "json",
		"export.out":           "-",
		"export.workers":       4,
		"sync.validator_class": "",
		"sync.validate":        true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SCHEMAREPO_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "SCHEMAREPO_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

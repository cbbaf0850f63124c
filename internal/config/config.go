// Package config loads the primetime configuration file.
//
// The file is YAML. ${VAR_NAME} patterns are replaced with environment
// variables before parsing, durations are written as Go duration strings,
// and missing fields fall back to Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Primes  PrimesConfig  `yaml:"primes"`
	Todos   TodosConfig   `yaml:"todos"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects where favorite primes are persisted.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	CacheSize int    `yaml:"cache_size"`
}

// PrimesConfig selects how nth primes are computed.
type PrimesConfig struct {
	Offline bool          `yaml:"offline"`
	AppID   string        `yaml:"app_id"`
	Timeout time.Duration `yaml:"-"`

	TimeoutRaw string `yaml:"timeout"`
}

type TodosConfig struct {
	SortDelay time.Duration `yaml:"-"`

	SortDelayRaw string `yaml:"sort_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "disk", Path: "./data", CacheSize: 64},
		Primes:  PrimesConfig{Timeout: 5 * time.Second},
		Todos:   TodosConfig{SortDelay: time.Second},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9464"},
	}
}

// Load reads the file at path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envVar = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or nothing when unset.
func expandEnvVars(s string) string {
	return envVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVar.FindStringSubmatch(match)[1])
	})
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "disk", "sqlite", "memdb":
	default:
		return fmt.Errorf("%w: storage.backend %q must be disk, sqlite or memdb", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.Backend != "memdb" && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required for %s", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.CacheSize < 0 {
		return fmt.Errorf("%w: storage.cache_size must not be negative", ErrInvalidConfig)
	}
	if !c.Primes.Offline && c.Primes.AppID == "" {
		return fmt.Errorf("%w: primes.app_id is required unless primes.offline is set", ErrInvalidConfig)
	}
	if c.Primes.Timeout <= 0 {
		return fmt.Errorf("%w: primes.timeout must be positive", ErrInvalidConfig)
	}
	if c.Todos.SortDelay < 0 {
		return fmt.Errorf("%w: todos.sort_delay must not be negative", ErrInvalidConfig)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q must be console or json", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("%w: metrics.addr is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}

func parseDurations(cfg *Config) error {
	var err error

	if cfg.Primes.TimeoutRaw != "" {
		cfg.Primes.Timeout, err = time.ParseDuration(cfg.Primes.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing primes.timeout %q: %w", cfg.Primes.TimeoutRaw, err)
		}
	}

	if cfg.Todos.SortDelayRaw != "" {
		cfg.Todos.SortDelay, err = time.ParseDuration(cfg.Todos.SortDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing todos.sort_delay %q: %w", cfg.Todos.SortDelayRaw, err)
		}
	}

	return nil
}

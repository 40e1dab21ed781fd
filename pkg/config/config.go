// Package config provides environment-based configuration for the logbook service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/narvanalabs/logbook/internal/store"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the logbook service.
type Config struct {
	// Server configuration
	APIHost string `yaml:"api_host"`
	APIPort int    `yaml:"api_port"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Store selects and configures the record backend.
	Store StoreConfig `yaml:"store"`

	// SeedCount is the number of sample records created at startup.
	SeedCount int `yaml:"seed_count"`

	// Latency delays every /logs request. Zero disables it.
	Latency time.Duration `yaml:"latency"`

	// Pagination defaults applied to missing or invalid query parameters.
	DefaultPageLimit int `yaml:"default_page_limit"`
	MaxPageLimit     int `yaml:"max_page_limit"`

	// AllowBlankUpdates lets an update clear owner or logText.
	AllowBlankUpdates bool `yaml:"allow_blank_updates"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `yaml:"cors_origins"`

	Log LogConfig `yaml:"log"`
}

// StoreConfig holds record store configuration.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseDSN string `yaml:"database_dsn"`
	IDStrategy  string `yaml:"id_strategy"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads configuration from the optional YAML file named by
// LOGBOOK_CONFIG, then applies environment variable overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("LOGBOOK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It ignores LOGBOOK_CONFIG and does not validate, useful for testing.
func LoadWithDefaults() *Config {
	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

func defaults() *Config {
	return &Config{
		APIHost:          "0.0.0.0",
		APIPort:          3001,
		ShutdownTimeout:  30 * time.Second,
		Store:            StoreConfig{Driver: DriverMemory, IDStrategy: store.IDStrategyUUID},
		SeedCount:        15,
		DefaultPageLimit: 10,
		MaxPageLimit:     100,
		CORSOrigins:      []string{"*"},
		Log:              LogConfig{Level: "info", JSON: true},
	}
}

// loadFile decodes a YAML file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIHost = getEnv("API_HOST", c.APIHost)
	c.APIPort = getIntEnv("API_PORT", c.APIPort)
	c.ShutdownTimeout = getDurationEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.DatabaseDSN = getEnv("DATABASE_URL", c.Store.DatabaseDSN)
	c.Store.IDStrategy = getEnv("ID_STRATEGY", c.Store.IDStrategy)
	c.SeedCount = getIntEnv("SEED_COUNT", c.SeedCount)
	c.Latency = getDurationEnv("LOGBOOK_LATENCY", c.Latency)
	c.DefaultPageLimit = getIntEnv("DEFAULT_PAGE_LIMIT", c.DefaultPageLimit)
	c.MaxPageLimit = getIntEnv("MAX_PAGE_LIMIT", c.MaxPageLimit)
	c.AllowBlankUpdates = getBoolEnv("ALLOW_BLANK_UPDATES", c.AllowBlankUpdates)
	c.CORSOrigins = getListEnv("CORS_ORIGINS", c.CORSOrigins)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.JSON = format == "json"
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.APIPort < 1 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
		// Sequence IDs restart at 1 with the process and would collide with stored rows.
		if c.Store.IDStrategy == store.IDStrategySequence {
			errs = append(errs, errors.New("ID_STRATEGY=sequence is only supported by the memory store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMemory, DriverPostgres, c.Store.Driver))
	}

	if _, err := store.NewIDGenerator(c.Store.IDStrategy); err != nil || c.Store.IDStrategy == "" {
		errs = append(errs, fmt.Errorf("ID_STRATEGY must be %q or %q, got %q", store.IDStrategyUUID, store.IDStrategySequence, c.Store.IDStrategy))
	}
	if c.SeedCount < 0 {
		errs = append(errs, errors.New("SEED_COUNT must not be negative"))
	}
	if c.Latency < 0 {
		errs = append(errs, errors.New("LOGBOOK_LATENCY must not be negative"))
	}
	if c.DefaultPageLimit < 1 {
		errs = append(errs, errors.New("DEFAULT_PAGE_LIMIT must be at least 1"))
	}
	if c.MaxPageLimit < c.DefaultPageLimit {
		errs = append(errs, errors.New("MAX_PAGE_LIMIT must not be below DEFAULT_PAGE_LIMIT"))
	}

	return errors.Join(errs...)
}

// Addr returns the host:port the API server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Package config handles configuration management with validation
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure
type Config struct {
	App         AppConfig         `yaml:"app"`
	Server      ServerConfig      `yaml:"server"`
	MarketData  MarketDataConfig  `yaml:"market_data"`
	Bookmarks   BookmarksConfig   `yaml:"bookmarks"`
	Simulator   SimulatorConfig   `yaml:"simulator"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// ServerConfig contains the API server settings
type ServerConfig struct {
	Port                   int `yaml:"port"`
	ReadTimeoutSeconds     int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
}

// MarketDataConfig contains market data provider settings
type MarketDataConfig struct {
	DefaultProtocol string            `yaml:"default_protocol"`
	Live            bool              `yaml:"live"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Endpoints       map[string]string `yaml:"endpoints"` // protocol -> gateway URL
}

// BookmarksConfig contains learning-link store settings
type BookmarksConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path"`   // sqlite database path
}

// SimulatorConfig contains scenario defaults and bounds
type SimulatorConfig struct {
	DefaultTimeframeDays int     `yaml:"default_timeframe_days"`
	MaxTimeframeDays     int     `yaml:"max_timeframe_days"`
	MaxPriceShockPct     float64 `yaml:"max_price_shock_pct"`
}

// ConcurrencyConfig contains worker pool settings
type ConcurrencyConfig struct {
	SweepPoolSize   int `yaml:"sweep_pool_size"`
	SweepPoolBuffer int `yaml:"sweep_pool_buffer"`
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfig loads configuration from a YAML file with environment variable expansion
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := expandEnvVars(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateAppConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateServerConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateMarketDataConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateBookmarksConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateSimulatorConfig(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateConcurrencyConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func (c *Config) validateAppConfig() error {
	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if !contains(validLevels, strings.ToUpper(c.App.LogLevel)) {
		return ValidationError{
			Field:   "app.log_level",
			Value:   c.App.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		}
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be in range 1-65535",
		}
	}
	if c.Server.ShutdownTimeoutSeconds < 1 || c.Server.ShutdownTimeoutSeconds > 300 {
		return ValidationError{
			Field:   "server.shutdown_timeout_seconds",
			Value:   c.Server.ShutdownTimeoutSeconds,
			Message: "must be in range 1-300",
		}
	}
	return nil
}

func (c *Config) validateMarketDataConfig() error {
	validProtocols := []string{"aave", "compound"}
	if !contains(validProtocols, c.MarketData.DefaultProtocol) {
		return ValidationError{
			Field:   "market_data.default_protocol",
			Value:   c.MarketData.DefaultProtocol,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validProtocols, ", ")),
		}
	}
	if c.MarketData.TimeoutSeconds < 1 || c.MarketData.TimeoutSeconds > 120 {
		return ValidationError{
			Field:   "market_data.timeout_seconds",
			Value:   c.MarketData.TimeoutSeconds,
			Message: "must be in range 1-120",
		}
	}
	if c.MarketData.Live && len(c.MarketData.Endpoints) == 0 {
		return ValidationError{
			Field:   "market_data.endpoints",
			Message: "at least one endpoint is required when live data is enabled",
		}
	}
	return nil
}

func (c *Config) validateBookmarksConfig() error {
	switch c.Bookmarks.Driver {
	case "memory":
		return nil
	case "sqlite":
		if c.Bookmarks.Path == "" {
			return ValidationError{
				Field:   "bookmarks.path",
				Message: "required when driver is sqlite",
			}
		}
		return nil
	default:
		return ValidationError{
			Field:   "bookmarks.driver",
			Value:   c.Bookmarks.Driver,
			Message: "must be one of: sqlite, memory",
		}
	}
}

func (c *Config) validateSimulatorConfig() error {
	if c.Simulator.DefaultTimeframeDays < 1 || c.Simulator.DefaultTimeframeDays > c.Simulator.MaxTimeframeDays {
		return ValidationError{
			Field:   "simulator.default_timeframe_days",
			Value:   c.Simulator.DefaultTimeframeDays,
			Message: fmt.Sprintf("must be in range 1-%d", c.Simulator.MaxTimeframeDays),
		}
	}
	if c.Simulator.MaxTimeframeDays < 1 || c.Simulator.MaxTimeframeDays > 3650 {
		return ValidationError{
			Field:   "simulator.max_timeframe_days",
			Value:   c.Simulator.MaxTimeframeDays,
			Message: "must be in range 1-3650",
		}
	}
	if c.Simulator.MaxPriceShockPct <= 0 || c.Simulator.MaxPriceShockPct > 100 {
		return ValidationError{
			Field:   "simulator.max_price_shock_pct",
			Value:   c.Simulator.MaxPriceShockPct,
			Message: "must be in range (0, 100]",
		}
	}
	return nil
}

func (c *Config) validateConcurrencyConfig() error {
	if c.Concurrency.SweepPoolSize < 1 || c.Concurrency.SweepPoolSize > 100 {
		return ValidationError{
			Field:   "concurrency.sweep_pool_size",
			Value:   c.Concurrency.SweepPoolSize,
			Message: "must be in range 1-100",
		}
	}
	if c.Concurrency.SweepPoolBuffer < 1 || c.Concurrency.SweepPoolBuffer > 10000 {
		return ValidationError{
			Field:   "concurrency.sweep_pool_buffer",
			Value:   c.Concurrency.SweepPoolBuffer,
			Message: "must be in range 1-10000",
		}
	}
	return nil
}

// expandEnvVars expands ${VAR} references in the raw YAML content
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// DefaultConfig returns a configuration suitable for local development
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "defisim",
			LogLevel: "INFO",
		},
		Server: ServerConfig{
			Port:                   8080,
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		MarketData: MarketDataConfig{
			DefaultProtocol: "aave",
			Live:            false,
			TimeoutSeconds:  10,
			Endpoints:       map[string]string{},
		},
		Bookmarks: BookmarksConfig{
			Driver: "sqlite",
			Path:   "defisim.db",
		},
		Simulator: SimulatorConfig{
			DefaultTimeframeDays: 30,
			MaxTimeframeDays:     365,
			MaxPriceShockPct:     50,
		},
		Concurrency: ConcurrencyConfig{
			SweepPoolSize:   4,
			SweepPoolBuffer: 256,
		},
		Telemetry: TelemetryConfig{
			EnableMetrics: true,
			EnableTracing: false,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"loandash/domain/loan"
	"loandash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
	Logging   LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds the file-based loan source settings
type DataConfig struct {
	LoanFile string
}

// DatabaseConfig holds the optional Postgres loan source. An empty URL means
// loans are read from DataConfig.LoanFile.
type DatabaseConfig struct {
	URL string
}

// DashboardConfig holds chart and selector defaults
type DashboardConfig struct {
	HistogramBins    int
	DefaultCondition loan.Condition
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// DefaultLoanFile is where the cleaned export is expected when nothing is configured
const DefaultLoanFile = "data_input/loan_clean.csv"

// Overrides replace environment values, typically from command-line flags.
// Zero fields keep what the environment says.
type Overrides struct {
	LoanFile      string
	DatabaseURL   string
	HistogramBins int
}

func (o Overrides) apply(c *Config) {
	if o.LoanFile != "" {
		c.Data.LoanFile = o.LoanFile
	}
	if o.DatabaseURL != "" {
		c.Database.URL = o.DatabaseURL
	}
	if o.HistogramBins != 0 {
		c.Dashboard.HistogramBins = o.HistogramBins
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides reads the environment, applies overrides on top and
// validates the result
func LoadWithOverrides(overrides Overrides) (*Config, error) {
	dashboardConfig, err := loadDashboardConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard configuration")
	}

	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Database:  DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Dashboard: *dashboardConfig,
		Logging:   LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}
	overrides.apply(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// UsesDatabase reports whether loans come from Postgres
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		LoanFile: getEnvOrDefault("LOAN_DATA_FILE", DefaultLoanFile),
	}
}

func loadDashboardConfig() (*DashboardConfig, error) {
	condition, err := loan.ParseCondition(getEnvOrDefault("DEFAULT_CONDITION", string(loan.ConditionGood)))
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	return &DashboardConfig{
		HistogramBins:    getEnvIntOrDefault("HISTOGRAM_BINS", 20),
		DefaultCondition: condition,
	}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", config.Server.Port))
	}
	if !config.UsesDatabase() && config.Data.LoanFile == "" {
		return errors.ConfigInvalid("LOAN_DATA_FILE or DATABASE_URL is required")
	}
	if config.Dashboard.HistogramBins < 1 || config.Dashboard.HistogramBins > 200 {
		return errors.ConfigInvalid(fmt.Sprintf("HISTOGRAM_BINS must be between 1 and 200, got %d", config.Dashboard.HistogramBins))
	}
	if config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

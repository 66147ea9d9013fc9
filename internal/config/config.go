package config

import (
	"os"
	"strconv"

	"gobalance/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the process-level configuration read from the environment
type Config struct {
	LogLevel string
	Data     DataConfig
	Output   OutputConfig
}

// DataConfig locates the item definitions
type DataConfig struct {
	Dir string `validate:"required"`
}

// OutputConfig holds figure output settings
type OutputConfig struct {
	Dir      string  `validate:"required"`
	WidthCM  float64 `validate:"gt=0"`
	HeightCM float64 `validate:"gt=0"`
	Samples  int     `validate:"min=2"` // curve grid size when a plot config sets none
	Show     bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
		Data:     *loadDataConfig(),
		Output:   *loadOutputConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir: getEnvOrDefault("BALANCE_DATA_DIR", "assets/json"),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir:      getEnvOrDefault("BALANCE_OUTPUT_DIR", "."),
		WidthCM:  getEnvFloatOrDefault("PLOT_WIDTH_CM", 24),
		HeightCM: getEnvFloatOrDefault("PLOT_HEIGHT_CM", 16),
		Samples:  getEnvIntOrDefault("PLOT_SAMPLES", 100),
		Show:     getEnvBoolOrDefault("PLOT_SHOW", false),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.ConfigInvalid(describeValidation(err))
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

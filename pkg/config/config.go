package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Bars    BarsConfig    `yaml:"bars"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// BarsConfig points at an optional CSV file of OHLCV bars to preload at
// startup (time,open,high,low,close,volume per row).
type BarsConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment and YAML file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		API: APIConfig{
			Port:    getEnvIntOrDefault("API_PORT", 8080),
			Timeout: time.Duration(getEnvIntOrDefault("API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Bars: BarsConfig{
			Path: getEnvOrDefault("BARS_PATH", ""),
		},
		Logging: LoggingConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	// Load YAML config if it exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := parseIntSafe(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseIntSafe(s string) (int, error) {
	var result int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &parseError{s}
		}
		result = result*10 + int(c-'0')
	}
	return result, nil
}

type parseError struct {
	value string
}

func (e *parseError) Error() string {
	return "invalid integer: " + e.value
}

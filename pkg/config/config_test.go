package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Save original environment variables
	originalEnvVars := map[string]string{
		"API_PORT":            os.Getenv("API_PORT"),
		"API_TIMEOUT_SECONDS": os.Getenv("API_TIMEOUT_SECONDS"),
		"BARS_PATH":           os.Getenv("BARS_PATH"),
		"LOG_LEVEL":           os.Getenv("LOG_LEVEL"),
	}

	// Clean up after test
	defer func() {
		for key, value := range originalEnvVars {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	t.Run("loads default configuration", func(t *testing.T) {
		// Clear all environment variables
		for key := range originalEnvVars {
			os.Unsetenv(key)
		}

		config, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Check default values
		if config.API.Port != 8080 {
			t.Errorf("expected API port 8080, got %d", config.API.Port)
		}
		if config.API.Timeout != 30*time.Second {
			t.Errorf("expected API timeout 30s, got %v", config.API.Timeout)
		}
		if config.Bars.Path != "" {
			t.Errorf("expected empty bars path, got '%s'", config.Bars.Path)
		}
		if config.Logging.Level != "info" {
			t.Errorf("expected log level 'info', got '%s'", config.Logging.Level)
		}
	})

	t.Run("loads environment variables", func(t *testing.T) {
		os.Setenv("API_PORT", "9090")
		os.Setenv("API_TIMEOUT_SECONDS", "45")
		os.Setenv("BARS_PATH", "/data/bars.csv")
		os.Setenv("LOG_LEVEL", "debug")

		config, err := Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.API.Port != 9090 {
			t.Errorf("expected API port 9090, got %d", config.API.Port)
		}
		if config.API.Timeout != 45*time.Second {
			t.Errorf("expected API timeout 45s, got %v", config.API.Timeout)
		}
		if config.Bars.Path != "/data/bars.csv" {
			t.Errorf("expected bars path '/data/bars.csv', got '%s'", config.Bars.Path)
		}
		if config.Logging.Level != "debug" {
			t.Errorf("expected log level 'debug', got '%s'", config.Logging.Level)
		}
	})
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "returns environment value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "env_value",
			expected:     "env_value",
		},
		{
			name:         "returns default when environment not set",
			key:          "UNSET_KEY",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original value
			original := os.Getenv(tt.key)
			defer func() {
				if original == "" {
					os.Unsetenv(tt.key)
				} else {
					os.Setenv(tt.key, original)
				}
			}()

			// Set test value
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			result := getEnvOrDefault(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		expected     int
	}{
		{
			name:         "returns parsed integer when valid",
			key:          "TEST_INT_KEY",
			defaultValue: 42,
			envValue:     "123",
			expected:     123,
		},
		{
			name:         "returns default when invalid integer",
			key:          "TEST_INT_KEY",
			defaultValue: 42,
			envValue:     "invalid",
			expected:     42,
		},
		{
			name:         "returns default when not set",
			key:          "UNSET_INT_KEY",
			defaultValue: 42,
			envValue:     "",
			expected:     42,
		},
		{
			name:         "returns zero when environment is zero",
			key:          "TEST_INT_KEY",
			defaultValue: 42,
			envValue:     "0",
			expected:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original value
			original := os.Getenv(tt.key)
			defer func() {
				if original == "" {
					os.Unsetenv(tt.key)
				} else {
					os.Setenv(tt.key, original)
				}
			}()

			// Set test value
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			result := getEnvIntOrDefault(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestParseIntSafe(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{
			name:        "parses valid integer",
			input:       "123",
			expected:    123,
			expectError: false,
		},
		{
			name:        "parses zero",
			input:       "0",
			expected:    0,
			expectError: false,
		},
		{
			name:        "fails on negative number",
			input:       "-123",
			expected:    0,
			expectError: true,
		},
		{
			name:        "fails on floating point",
			input:       "123.45",
			expected:    0,
			expectError: true,
		},
		{
			name:        "fails on letters",
			input:       "abc",
			expected:    0,
			expectError: true,
		},
		{
			name:        "fails on empty string",
			input:       "",
			expected:    0,
			expectError: false, // Empty string results in 0, no error
		},
		{
			name:        "fails on mixed characters",
			input:       "12a3",
			expected:    0,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseIntSafe(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for input '%s', got nil", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error for input '%s', got %v", tt.input, err)
				}
				if result != tt.expected {
					t.Errorf("expected %d for input '%s', got %d", tt.expected, tt.input, result)
				}
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := &parseError{value: "invalid123"}
	expected := "invalid integer: invalid123"
	if err.Error() != expected {
		t.Errorf("expected error message '%s', got '%s'", expected, err.Error())
	}
}

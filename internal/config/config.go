// Package config provides configuration management for protofab using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files (.protofab.yml), environment
// variable overrides with the PROTOFAB_ prefix, and validation. It manages
// server settings, definition search paths, preview behavior, and
// development-specific options like hot reload.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Components  ComponentsConfig  `yaml:"components"`
	Preview     PreviewConfig     `yaml:"preview"`
	Development DevelopmentConfig `yaml:"development"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	Open           bool     `yaml:"open"`
	NoOpen         bool     `yaml:"no-open"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Environment    string   `yaml:"environment"`
}

type ComponentsConfig struct {
	Paths           []string `yaml:"paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type PreviewConfig struct {
	// Default is the definition shown when the preview index is opened
	// without a selection.
	Default string `yaml:"default"`
	// Theme selects the preview shell color scheme, "light" or "dark".
	Theme string `yaml:"theme"`
}

type DevelopmentConfig struct {
	HotReload bool `yaml:"hot_reload"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply defaults for definition paths only if not explicitly set
	if !viper.IsSet("components.paths") && len(config.Components.Paths) == 0 {
		config.Components.Paths = []string{"./components", "./definitions"}
	}

	// Handle paths set via viper (workaround for viper slice handling)
	if viper.IsSet("components.paths") && len(config.Components.Paths) == 0 {
		paths := viper.GetStringSlice("components.paths")
		if len(paths) > 0 {
			config.Components.Paths = paths
		}
	}
	if viper.IsSet("components.exclude_patterns") && len(config.Components.ExcludePatterns) == 0 {
		patterns := viper.GetStringSlice("components.exclude_patterns")
		if len(patterns) > 0 {
			config.Components.ExcludePatterns = patterns
		}
	}

	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	// Handle development settings set via viper (workaround for viper bool handling)
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	} else {
		config.Development.HotReload = true
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8380
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Preview.Theme == "" {
		config.Preview.Theme = "light"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	// Override no-open if explicitly set via flag
	if viper.IsSet("server.no-open") && viper.GetBool("server.no-open") {
		config.Server.Open = false
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateComponentsConfig(&config.Components); err != nil {
		return fmt.Errorf("components config: %w", err)
	}
	if err := validatePreviewConfig(&config.Preview); err != nil {
		return fmt.Errorf("preview config: %w", err)
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 means a system-assigned port, useful in tests.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validateComponentsConfig validates definition path configuration values
func validateComponentsConfig(config *ComponentsConfig) error {
	for _, path := range config.Paths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid component path '%s': %w", path, err)
		}
	}
	return nil
}

func validatePreviewConfig(config *PreviewConfig) error {
	switch config.Theme {
	case "", "light", "dark":
		return nil
	default:
		return fmt.Errorf("unknown theme %q, expected light or dark", config.Theme)
	}
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Display connection settings
	Display DisplayConfig `mapstructure:"display"`

	// Window defaults used by the CLI
	Window WindowConfig `mapstructure:"window"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DisplayConfig contains compositor connection settings
type DisplayConfig struct {
	Socket string `mapstructure:"socket"` // Wayland socket name, empty for $WAYLAND_DISPLAY
}

// WindowConfig contains default window parameters
type WindowConfig struct {
	Width     uint32 `mapstructure:"width"`
	Height    uint32 `mapstructure:"height"`
	Decorated bool   `mapstructure:"decorated"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override WAYLOOP_LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Display: DisplayConfig{
			Socket: "",
		},
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Decorated: true,
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use WAYLOOP_LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wayloop")
	viper.SetConfigType("toml")

	// If a specific path is set, use only that
	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "wayloop"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("display.socket", DefaultConfig.Display.Socket)
	viper.SetDefault("window.width", DefaultConfig.Window.Width)
	viper.SetDefault("window.height", DefaultConfig.Window.Height)
	viper.SetDefault("window.decorated", DefaultConfig.Window.Decorated)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		if err := Init(); err != nil {
			cfg = &Config{}
			*cfg = DefaultConfig
		}
	}
	return cfg
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	t.Run("initializes with defaults when no config exists", func(t *testing.T) {
		viper.Reset()
		cfg = nil
		configPathOverride = ""

		tmpDir := t.TempDir()
		oldWd, _ := os.Getwd()
		os.Chdir(tmpDir)
		defer os.Chdir(oldWd)

		if err := Init(); err != nil {
			t.Errorf("Init() failed: %v", err)
		}

		config := Get()
		if config == nil {
			t.Fatal("Get() returned nil after Init()")
		}
		if config.Window.Width != 800 || config.Window.Height != 600 {
			t.Errorf("Expected default window 800x600, got %dx%d", config.Window.Width, config.Window.Height)
		}
		if !config.Window.Decorated {
			t.Error("Expected decorated windows by default")
		}
		if config.Display.Socket != "" {
			t.Errorf("Expected empty default socket, got %q", config.Display.Socket)
		}
	})

	t.Run("reads values from a config file", func(t *testing.T) {
		viper.Reset()
		cfg = nil

		tmpDir := t.TempDir()
		content := `[display]
socket = "wayland-1"

[window]
width = 1024
height = 768
`
		path := filepath.Join(tmpDir, "wayloop.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		SetConfigPath(path)
		defer SetConfigPath("")

		if err := Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}

		config := Get()
		if config.Display.Socket != "wayland-1" {
			t.Errorf("Expected socket wayland-1, got %q", config.Display.Socket)
		}
		if config.Window.Width != 1024 {
			t.Errorf("Expected width 1024, got %d", config.Window.Width)
		}
		// Unset keys keep their defaults.
		if !config.Window.Decorated {
			t.Error("Expected decorated to keep its default")
		}
	})

	t.Run("rejects invalid TOML", func(t *testing.T) {
		viper.Reset()
		cfg = nil

		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "wayloop.toml")
		if err := os.WriteFile(path, []byte("[window\nwidth = 1024"), 0644); err != nil {
			t.Fatal(err)
		}
		SetConfigPath(path)
		defer SetConfigPath("")

		if err := Init(); err == nil {
			t.Error("Init() should fail on invalid TOML")
		}
	})
}

func TestGetLazyInit(t *testing.T) {
	viper.Reset()
	cfg = nil
	configPathOverride = ""

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}
}

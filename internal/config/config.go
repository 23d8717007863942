package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Camera  CameraConfig
	UI      UIConfig
	History HistoryConfig
	Log     LogConfig
}

// CameraConfig holds viewport tuning.
type CameraConfig struct {
	MinScale float64 `mapstructure:"min_scale"`
	PanStep  float64 `mapstructure:"pan_step"`
	ZoomStep float64 `mapstructure:"zoom_step"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FPS       int    `mapstructure:"fps"`
	Accent    string `mapstructure:"accent"`
	ShowEdges bool   `mapstructure:"show_edges"`
}

// HistoryConfig holds the sqlite file with recent files and saved views.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the log sink settings.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix GFASCOPE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("camera.min_scale", 0.5)
	v.SetDefault("camera.pan_step", 120.0)
	v.SetDefault("camera.zoom_step", 0.25)
	v.SetDefault("ui.fps", 60)
	v.SetDefault("ui.accent", "#89b4fa")
	v.SetDefault("ui.show_edges", true)
	v.SetDefault("history.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "gfascope", "history.db"))
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "gfascope", "gfascope.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("GFASCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "gfascope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GFASCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

// normalize guards the values the render and camera loops divide by.
func (c *Config) normalize() {
	if c.Camera.MinScale <= 0 {
		c.Camera.MinScale = 0.5
	}
	if c.Camera.PanStep <= 0 {
		c.Camera.PanStep = 120
	}
	if c.Camera.ZoomStep <= 0 {
		c.Camera.ZoomStep = 0.25
	}
	if c.UI.FPS < 1 || c.UI.FPS > 240 {
		c.UI.FPS = 60
	}
	if len(c.UI.Accent) != 7 || c.UI.Accent[0] != '#' {
		c.UI.Accent = "#89b4fa"
	}
}

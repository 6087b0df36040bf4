// Package config defines the Pizza Index configuration format and loads it
// from an optional YAML file plus environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppID is the stable application identifier used by the GUI framework.
	AppID = "com.github.edward-ap.pizzaindex"
	// AppConfigSubdir is the OS-specific directory that holds the config file.
	AppConfigSubdir = "PizzaIndex"
	// AppConfigName is the YAML file looked up in AppConfigSubdir.
	AppConfigName = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PIZZAINDEX_AUDIO_VOLUME.
	EnvPrefix = "PIZZAINDEX"

	// DefaultWidth is the preferred window width.
	DefaultWidth = 1200
	// DefaultHeight is the preferred window height.
	DefaultHeight = 760
	// DefaultVolume sets the safe initial cue level.
	DefaultVolume = 70
	// MinWindowWidth keeps the filter column and the chart visible together.
	MinWindowWidth = 900
	// MinWindowHeight leaves room for the chart floor of 400px.
	MinWindowHeight = 560
)

// Config aggregates every user-facing setting.
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WindowConfig is the initial window size.
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// AudioConfig controls the cue player.
type AudioConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	SoundDir      string        `mapstructure:"sound_dir"`
	Volume        int           `mapstructure:"volume"`
	HoverInterval time.Duration `mapstructure:"hover_interval"`
}

// PlaybackConfig holds the per-step dwell times.
type PlaybackConfig struct {
	EventDwell time.Duration `mapstructure:"event_dwell"`
	EmptyDwell time.Duration `mapstructure:"empty_dwell"`
}

// ChartConfig tunes pointer handling and chart geometry.
type ChartConfig struct {
	HitTolerance   float64       `mapstructure:"hit_tolerance"`
	HoverCooldown  time.Duration `mapstructure:"hover_cooldown"`
	ResizeDebounce time.Duration `mapstructure:"resize_debounce"`
	MaxScale       float64       `mapstructure:"max_scale"`
	MinHeight      float64       `mapstructure:"min_height"`
}

// LoggingConfig selects the log level and line format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConfigDir resolves the directory that may contain the config file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppConfigSubdir), nil
}

// ConfigPath is a helper that returns the full path to config.yaml.
func ConfigPath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppConfigName), nil
}

// Load reads the configuration. An empty path means the default location,
// where a missing file simply yields defaults; an explicit path must exist.
// Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			path = ""
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyRuntimeDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.applyRuntimeDefaults()
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", DefaultWidth)
	v.SetDefault("window.height", DefaultHeight)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sound_dir", "sounds")
	v.SetDefault("audio.volume", DefaultVolume)
	v.SetDefault("audio.hover_interval", "400ms")

	v.SetDefault("playback.event_dwell", "4s")
	v.SetDefault("playback.empty_dwell", "25ms")

	v.SetDefault("chart.hit_tolerance", 10.0)
	v.SetDefault("chart.hover_cooldown", "100ms")
	v.SetDefault("chart.resize_debounce", "100ms")
	v.SetDefault("chart.max_scale", 250.0)
	v.SetDefault("chart.min_height", 400.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "plain")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Audio.HoverInterval < 0 {
		return fmt.Errorf("audio.hover_interval must not be negative")
	}
	if c.Playback.EventDwell <= 0 {
		return fmt.Errorf("playback.event_dwell must be positive")
	}
	if c.Playback.EmptyDwell <= 0 {
		return fmt.Errorf("playback.empty_dwell must be positive")
	}
	if c.Chart.HitTolerance <= 0 {
		return fmt.Errorf("chart.hit_tolerance must be positive")
	}
	if c.Chart.HoverCooldown <= 0 {
		return fmt.Errorf("chart.hover_cooldown must be positive")
	}
	if c.Chart.ResizeDebounce < 0 {
		return fmt.Errorf("chart.resize_debounce must not be negative")
	}
	if c.Chart.MaxScale <= 0 {
		return fmt.Errorf("chart.max_scale must be positive")
	}
	if c.Chart.MinHeight < 100 {
		return fmt.Errorf("chart.min_height must be at least 100")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"plain": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: plain, text")
	}
	return nil
}

// applyRuntimeDefaults normalizes values after a load so the UI always
// receives sane inputs.
func (c *Config) applyRuntimeDefaults() {
	if c.Window.Width < MinWindowWidth {
		c.Window.Width = MinWindowWidth
	}
	if c.Window.Height < MinWindowHeight {
		c.Window.Height = MinWindowHeight
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		c.Audio.Volume = DefaultVolume
	}
	if strings.TrimSpace(c.Audio.SoundDir) == "" {
		c.Audio.SoundDir = "sounds"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

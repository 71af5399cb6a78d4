// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Style    StyleConfig    `mapstructure:"style"`
	Viewport ViewportConfig `mapstructure:"viewport"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains tile server configuration
type ServerConfig struct {
	URLTemplate      string            `mapstructure:"url_template"`
	Timeout          time.Duration     `mapstructure:"timeout"`
	Headers          map[string]string `mapstructure:"headers"`
	UserAgent        string            `mapstructure:"user_agent"`
	MaxIdleConns     int               `mapstructure:"max_idle_conns"`
	IdleConnTimeout  time.Duration     `mapstructure:"idle_conn_timeout"`
	DisableKeepAlive bool              `mapstructure:"disable_keep_alive"`
}

// CacheConfig contains the on-disk tile cache configuration
type CacheConfig struct {
	Directory string `mapstructure:"directory"`
	Extension string `mapstructure:"extension"`
}

// StyleConfig locates the external style rule file. An empty path selects
// the built-in default rule set.
type StyleConfig struct {
	Path string `mapstructure:"path"`
}

// ViewportConfig describes the screen-space viewport tiles are resolved for
type ViewportConfig struct {
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	TileSize int    `mapstructure:"tile_size"`
	MaxZoom  uint32 `mapstructure:"max_zoom"`
}

// BatchConfig contains prefetch worker pool configuration
type BatchConfig struct {
	Workers  int  `mapstructure:"workers"`
	FailFast bool `mapstructure:"fail_fast"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Dir      string `mapstructure:"dir"`
	Terminal bool   `mapstructure:"terminal"`
}

// Load loads configuration from viper-bound sources
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults configures default values for all configuration options
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.url_template", "https://vector.openstreetmap.org/shortbread_v1/{z}/{x}/{y}.mvt")
	viper.SetDefault("server.timeout", 30*time.Second)
	viper.SetDefault("server.user_agent", "tileblend/1.0")
	viper.SetDefault("server.max_idle_conns", 100)
	viper.SetDefault("server.idle_conn_timeout", 90*time.Second)
	viper.SetDefault("server.disable_keep_alive", false)

	// Cache defaults
	viper.SetDefault("cache.directory", "./cache")
	viper.SetDefault("cache.extension", ".mvt")

	// Viewport defaults
	viper.SetDefault("viewport.width", 3840)
	viper.SetDefault("viewport.height", 2160)
	viper.SetDefault("viewport.tile_size", 4096)
	viper.SetDefault("viewport.max_zoom", 14)

	// Batch defaults
	viper.SetDefault("batch.workers", 4)
	viper.SetDefault("batch.fail_fast", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.terminal", true)
}

// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"strings"
)

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateServer(&config.Server); err != nil {
		return fmt.Errorf("server configuration invalid: %w", err)
	}

	if err := validateCache(&config.Cache); err != nil {
		return fmt.Errorf("cache configuration invalid: %w", err)
	}

	if err := validateViewport(&config.Viewport); err != nil {
		return fmt.Errorf("viewport configuration invalid: %w", err)
	}

	if err := validateBatch(&config.Batch); err != nil {
		return fmt.Errorf("batch configuration invalid: %w", err)
	}

	return nil
}

// validateServer validates tile server configuration parameters
func validateServer(config *ServerConfig) error {
	if config.URLTemplate == "" {
		return fmt.Errorf("url_template is required")
	}

	for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(config.URLTemplate, placeholder) {
			return fmt.Errorf("url_template is missing the %s placeholder", placeholder)
		}
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateCache validates cache configuration parameters
func validateCache(config *CacheConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("directory is required")
	}

	if !strings.HasPrefix(config.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", config.Extension)
	}

	return nil
}

// validateViewport validates viewport configuration parameters
func validateViewport(config *ViewportConfig) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}

	if config.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive")
	}

	if config.MaxZoom > 22 {
		return fmt.Errorf("max_zoom %d exceeds the supported tile pyramid depth of 22", config.MaxZoom)
	}

	return nil
}

// validateBatch validates prefetch configuration parameters
func validateBatch(config *BatchConfig) error {
	if config.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	return nil
}

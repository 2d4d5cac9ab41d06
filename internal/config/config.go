// Package config loads renderer configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tuiwo/orgmd2xhs/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// configDirName is the subdirectory of the user config dir searched for
// named configs.
const configDirName = "orgmd2xhs"

// Config holds all file-based configuration for rendering.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Capture CaptureConfig `yaml:"capture"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = dist)
}

// RenderConfig defines page box and styling options.
type RenderConfig struct {
	Width    int    `yaml:"width"`    // Page width in px (0 = default)
	Height   int    `yaml:"height"`   // Page height in px (0 = default)
	Template string `yaml:"template"` // Template name or file path (empty = clean)
	MaxPages int    `yaml:"maxPages"` // Page cap per document (0 = default)
}

// CaptureConfig defines browser capture options.
type CaptureConfig struct {
	Timeout string `yaml:"timeout"` // Per-document timeout (e.g. "30s", "2m")
}

// Validate checks values that can be rejected without knowing the defaults.
// Zero values mean "use the default" and pass.
func (c *Config) Validate() error {
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return fmt.Errorf("render: dimensions must not be negative (%dx%d)", c.Render.Width, c.Render.Height)
	}
	if c.Render.MaxPages < 0 {
		return fmt.Errorf("render.maxPages: must not be negative, got %d", c.Render.MaxPages)
	}
	if c.Capture.Timeout != "" {
		d, err := time.ParseDuration(c.Capture.Timeout)
		if err != nil {
			return fmt.Errorf("capture.timeout: %v", err)
		}
		if d <= 0 {
			return fmt.Errorf("capture.timeout: must be positive, got %s", c.Capture.Timeout)
		}
	}
	return nil
}

// DefaultConfig returns a configuration where every value defers to the
// renderer defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, then the user config dir.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

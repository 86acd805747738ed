// Package config loads proofstore configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-proofstore/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Config holds all configuration for the proofstore CLI and server.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Render   RenderConfig   `yaml:"render"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig defines storage options.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite file path (empty = ./proof_elements.sqlite3)
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address (empty = :8080)
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	HTMLMath bool `yaml:"htmlMath"` // typeset math in html-format bodies
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default info)
	Format string `yaml:"format"` // text, json (default text)
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./proof_elements.sqlite3"},
		Server:   ServerConfig{Addr: ":8080"},
		Render:   RenderConfig{HTMLMath: false},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name. Values
// absent from the file keep their defaults. If nameOrPath contains a path
// separator it is treated as a file path; otherwise it is searched in the
// standard locations. Returns an error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard
// locations: current directory first, then ~/.config/go-proofstore/, trying
// .yaml then .yml.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		for _, ext := range extensions {
			homePath := filepath.Join(home, ".config", "go-proofstore", name+ext)
			if fileExists(homePath) {
				return homePath, nil
			}
			tried = append(tried, homePath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

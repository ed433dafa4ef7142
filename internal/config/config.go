// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Package config loads the application configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults
//  2. Config file (config.yaml, or CLUSTERVIEW_CONFIG_PATH)
//  3. Environment variables with the CLUSTERVIEW_ prefix
//
// Environment variables map dotted keys with underscores, e.g.
// CLUSTERVIEW_SERVER_PORT=9000 sets server.port.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CLUSTERVIEW_"

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CLUSTERVIEW_CONFIG_PATH"

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/clusterview/config.yaml",
}

// Config is the application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Cache   CacheConfig   `koanf:"cache"`
	Media   MediaConfig   `koanf:"media"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `koanf:"host"`
	// Port 0 picks an ephemeral port; the chosen one is logged and used
	// for the browser URL.
	Port            int           `koanf:"port" validate:"gte=0,lte=65535"`
	OpenBrowser     bool          `koanf:"open_browser"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is the per-IP request budget per minute on /api routes.
	RateLimit int `koanf:"rate_limit" validate:"gt=0"`
}

// CacheConfig configures where view cache directories live.
type CacheConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// MediaConfig configures outbound media fetching.
type MediaConfig struct {
	// FetchTimeout bounds a single remote media download.
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
	// BreakerThreshold is the consecutive-failure count that opens the
	// media fetch circuit breaker.
	BreakerThreshold uint32 `koanf:"breaker_threshold" validate:"gt=0"`
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			OpenBrowser:     true,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       300,
		},
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
		},
		Media: MediaConfig{
			FetchTimeout:     60 * time.Second,
			BreakerThreshold: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultCacheDir returns the cache root: CLUSTERVIEW_CACHE_DIR if set,
// otherwise ~/.cache/clusterview.
func DefaultCacheDir() string {
	if dir := os.Getenv("CLUSTERVIEW_CACHE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".cache", "clusterview")
	}
	return filepath.Join(home, ".cache", "clusterview")
}

// Load builds the configuration from defaults, an optional YAML file and
// CLUSTERVIEW_-prefixed environment variables, then validates it.
// configPath may be empty, in which case the default search paths are used;
// a missing default file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	path, required := configPath, configPath != ""
	if path == "" {
		if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
			path, required = envPath, true
		} else {
			path = findConfigFile()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if required || !os.IsNotExist(err) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct validation tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// envKeyTransform maps CLUSTERVIEW_SERVER_PORT to server.port.
// The CACHE_DIR and CONFIG_PATH variables are consumed elsewhere and keep
// their flat spelling for backward compatibility.
func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	switch s {
	case "CACHE_DIR":
		return "cache.dir"
	case "CONFIG_PATH":
		return "" // handled explicitly in Load
	}
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

// findConfigFile returns the first existing default config path, or "".
func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

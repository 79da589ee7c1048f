// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads cub-console settings.
//
// Precedence, highest first:
//  1. CLI flags
//  2. Environment variables (CUB_CONSOLE_ prefix)
//  3. Config file (.cub-console.yaml in the working directory or
//     ~/.config/cub-console)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/confighub/cub-console/pkg/queries"
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogFileStderr sends logs to stderr instead of a file.
const LogFileStderr = "-"

// Config is the resolved configuration.
type Config struct {
	LogLevel  string `mapstructure:"log-level" json:"logLevel"`
	LogFormat string `mapstructure:"log-format" json:"logFormat"`
	// LogFile is where logs go while the console owns the terminal. Empty
	// means a timestamped file under .confighub/logs.
	LogFile string `mapstructure:"log-file" json:"logFile"`

	Locale      string `mapstructure:"locale" json:"locale"`
	ContextPath string `mapstructure:"context-path" json:"contextPath"`

	// ResizeThrottle is the minimum time between panel layout passes.
	ResizeThrottle time.Duration `mapstructure:"resize-throttle" json:"resizeThrottle"`

	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// SearchesFile holds the user's saved searches.
	SearchesFile string `mapstructure:"searches-file" json:"searchesFile"`

	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       LogLevelInfo,
		LogFormat:      LogFormatText,
		Locale:         "en",
		ResizeThrottle: 150 * time.Millisecond,
		SearchesFile:   queries.DefaultPath(),
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.ResizeThrottle < 0 {
		return fmt.Errorf("invalid resize throttle %s: must not be negative", c.ResizeThrottle)
	}

	if c.ContextPath != "" && !strings.HasPrefix(c.ContextPath, "/") {
		return fmt.Errorf("invalid context path %q: must start with /", c.ContextPath)
	}

	return nil
}

// Load reads configuration for cmd. A fresh viper instance is used per call.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("log-file", d.LogFile)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("context-path", d.ContextPath)
	v.SetDefault("resize-throttle", d.ResizeThrottle)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("searches-file", d.SearchesFile)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("CUB_CONSOLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %q: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName(".cub-console")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cub-console"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// bindFlags binds cmd's flags and the persistent flags of every ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("bind persistent flags: %w", err)
		}
	}
	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the Config in ctx, or Default.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return Default()
}

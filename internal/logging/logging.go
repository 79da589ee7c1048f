// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package logging builds the slog logger from config and carries it in a
// context. The console draws on the terminal, so logs go to a file by
// default.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/confighub/cub-console/internal/config"
)

// Dir is where log files are created when no path is configured.
const Dir = ".confighub/logs"

type ctxKey struct{}

// Setup opens the configured log destination and installs the logger as the
// slog default. The returned closer releases the log file.
func Setup(cfg *config.Config, command string) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == config.LogFileStderr {
		return SetupWithWriter(cfg, os.Stderr), io.NopCloser(nil), nil
	}

	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(Dir, fmt.Sprintf("%s-%s.log", command, time.Now().Format("2006-01-02-150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := SetupWithWriter(cfg, f).With("command", command)
	slog.SetDefault(logger)
	return logger, f, nil
}

// SetupWithWriter builds a logger writing to w and installs it as the slog
// default.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a config level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

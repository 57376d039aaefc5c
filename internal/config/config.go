// Package config loads converter options from YAML and builds the process
// logger. The core engine never reads files or environment on its own; it
// only sees the resulting Config value.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full option set recognized by the converter.
type Config struct {
	SchemaRoot        string `yaml:"schema_root"`
	CachePath         string `yaml:"cache_path"`
	MaxRecursionDepth int    `yaml:"max_recursion_depth"`
	MaxWorkers        int    `yaml:"max_workers"`
	EnableLogging     bool   `yaml:"enable_logging"`
	LogFile           string `yaml:"log_file"`
	LogLevel          string `yaml:"log_level"`
}

// Default returns the built-in option values.
func Default() Config {
	workers := runtime.NumCPU()
	if workers < 8 {
		workers = 8
	}
	return Config{
		SchemaRoot:        "schemas/ubl-2.1",
		CachePath:         filepath.Join(".ublgen", "descriptors.db"),
		MaxRecursionDepth: 20,
		MaxWorkers:        workers,
		LogLevel:          "info",
	}
}

// Load reads a YAML config file, filling unset options with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = 20
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = Default().MaxWorkers
	}
	return cfg, nil
}

// Logger builds the process logger from the logging options. With logging
// disabled it returns a logger that discards everything.
func (c Config) Logger() (*slog.Logger, error) {
	if !c.EnableLogging {
		return slog.New(slog.DiscardHandler), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	if dir := filepath.Dir(c.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), nil
}

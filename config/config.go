// Package config loads the tuning knobs of the factorizer.
//
// None of the knobs affects results: chunk sizes and worker counts only
// change how the search is scheduled.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultChunkSize is the divisor search chunk size without progress.
	DefaultChunkSize = 128 * 1024
	// DefaultProgressChunkSize is the divisor search chunk size with progress.
	DefaultProgressChunkSize = 1024
	// DefaultTrialChunkSize is the primality trial division chunk size.
	DefaultTrialChunkSize = 128 * 1024
	// DefaultLogLevel is the zap level used when none is configured.
	DefaultLogLevel = "info"
)

// ErrInvalidConfig is returned for unreadable or inconsistent configuration.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tuning knobs, as read from YAML or flags.
type Config struct {
	Workers           int    `yaml:"workers"`             // default: GOMAXPROCS (0)
	ChunkSize         int    `yaml:"chunk_size"`          // default: 128 * 1024
	ProgressChunkSize int    `yaml:"progress_chunk_size"` // default: 1024
	TrialChunkSize    int    `yaml:"trial_chunk_size"`    // default: 128 * 1024
	LogLevel          string `yaml:"log_level"`           // default: info
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{}.Normalize()
}

// Normalize replaces non-positive sizes and an empty log level with their
// defaults. A non-positive worker count stays 0, meaning GOMAXPROCS.
func (c Config) Normalize() Config {
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ProgressChunkSize <= 0 {
		c.ProgressChunkSize = DefaultProgressChunkSize
	}
	if c.TrialChunkSize <= 0 {
		c.TrialChunkSize = DefaultTrialChunkSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, KeyLogLevel, err)
	}
	return lvl, nil
}

// Parse decodes YAML, rejecting unknown keys, and normalizes the result.
func Parse(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c = c.Normalize()
	if _, err := c.Level(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return Parse(data)
}

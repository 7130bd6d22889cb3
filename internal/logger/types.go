// Package logger provides logging functionality for the application.
package logger

import (
	"fmt"
	"strings"
)

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `yaml:"level" json:"level" env:"LOG_LEVEL"`
	// Development enables development mode.
	Development bool `yaml:"development" json:"development" env:"LOG_DEVELOPMENT"`
	// Encoding sets the logger's encoding (console, json).
	Encoding string `yaml:"encoding" json:"encoding" env:"LOG_ENCODING"`
	// Output is the log destination (stdout, stderr, file).
	Output string `yaml:"output" json:"output" env:"LOG_OUTPUT"`
	// File is the log file path, used when Output is file.
	File string `yaml:"file" json:"file" env:"LOG_FILE"`
	// MaxSize is the maximum size of the log file in megabytes before rotation.
	MaxSize int `yaml:"max_size" json:"max_size"`
	// MaxBackups is the maximum number of rotated files to retain.
	MaxBackups int `yaml:"max_backups" json:"max_backups"`
	// MaxAge is the maximum number of days to retain rotated files.
	MaxAge int `yaml:"max_age" json:"max_age"`
	// Compress gzips rotated files.
	Compress bool `yaml:"compress" json:"compress"`
}

// SetDefaults fills zero-value fields with defaults.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = DefaultMaxBackups
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(string(c.Level))]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}
	switch c.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEncoding, c.Encoding)
	}
	switch c.Output {
	case OutputStdout, OutputStderr:
	case OutputFile:
		if c.File == "" {
			return ErrMissingFile
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output)
	}
	return nil
}

// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tknemuru/kindergarten-collecting/internal/config"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

// Version is the build version, set with -ldflags "-X ...common.Version=...".
var Version = "dev"

// ServiceName identifies the collector in logs and health responses.
const ServiceName = "kinder-collector"

// Viper keys bound to the root command's persistent flags.
const (
	KeyConfig   = "config"
	KeyDebug    = "debug"
	KeyLogLevel = "log_level"
)

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// NewCommandDeps loads the configuration selected by --config (or
// CONFIG_PATH), applies the logging flags and builds the logger.
func NewCommandDeps() (*CommandDeps, error) {
	path := viper.GetString(KeyConfig)
	if path == "" {
		path = config.GetConfigPath(config.DefaultPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if viper.GetBool(KeyDebug) {
		cfg.Logging.Level = logger.DebugLevel
		cfg.Logging.Development = true
	}
	if level := viper.GetString(KeyLogLevel); level != "" {
		cfg.Logging.Level = logger.Level(level)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Debug("Configuration loaded", "path", path)
	return &CommandDeps{Logger: log, Config: cfg}, nil
}

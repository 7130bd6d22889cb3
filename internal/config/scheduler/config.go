// Package scheduler holds the periodic collection settings.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Default configuration values
const (
	DefaultCron    = "0 3 * * *"
	DefaultAddress = ":8080"
)

// Config represents the scheduler configuration.
type Config struct {
	// Cron is a standard five-field cron expression.
	Cron string `yaml:"cron" env:"SCHEDULER_CRON"`
	// Address is where the status server listens. Empty disables it.
	Address string `yaml:"address" env:"SCHEDULER_ADDRESS"`
	// RunOnStart triggers one collection immediately.
	RunOnStart bool `yaml:"run_on_start" env:"SCHEDULER_RUN_ON_START"`
}

// New returns a scheduler configuration with default values.
func New() Config {
	return Config{
		Cron:    DefaultCron,
		Address: DefaultAddress,
	}
}

// Validate validates the scheduler configuration.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Cron); err != nil {
		return &types.ValidationError{Field: "cron", Value: c.Cron, Reason: err.Error()}
	}
	return nil
}

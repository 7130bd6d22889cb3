// Package config provides configuration management for the collector.
// It handles loading, validation, and access to configuration values from both
// YAML files and environment variables.
package config

import (
	"fmt"

	"github.com/tknemuru/kindergarten-collecting/internal/config/collector"
	dbconfig "github.com/tknemuru/kindergarten-collecting/internal/config/database"
	"github.com/tknemuru/kindergarten-collecting/internal/config/elasticsearch"
	"github.com/tknemuru/kindergarten-collecting/internal/config/extractor"
	"github.com/tknemuru/kindergarten-collecting/internal/config/fetcher"
	"github.com/tknemuru/kindergarten-collecting/internal/config/minio"
	"github.com/tknemuru/kindergarten-collecting/internal/config/output"
	"github.com/tknemuru/kindergarten-collecting/internal/config/scheduler"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

// DefaultPath is the config file looked up when neither --config nor CONFIG_PATH is set.
const DefaultPath = "config.yml"

// Config represents the application configuration.
type Config struct {
	// Collector holds the pipeline gates and page directories
	Collector collector.Config `yaml:"collector"`
	// Fetcher holds page download settings
	Fetcher fetcher.Config `yaml:"fetcher"`
	// Extractor holds detail-page selectors and field rules
	Extractor extractor.Config `yaml:"extractor"`
	// Output holds the CSV destination
	Output output.Config `yaml:"output"`
	// Logging holds logger settings
	Logging logger.Config `yaml:"logging"`
	// MinIO holds MinIO configuration for page archiving
	MinIO minio.Config `yaml:"minio"`
	// Database holds the Postgres sink configuration
	Database dbconfig.Config `yaml:"database"`
	// Elasticsearch holds the Elasticsearch sink configuration
	Elasticsearch elasticsearch.Config `yaml:"elasticsearch"`
	// Scheduler holds the periodic run settings
	Scheduler scheduler.Config `yaml:"scheduler"`
}

// Default returns a configuration populated with default values.
func Default() *Config {
	cfg := &Config{
		Collector:     collector.New(),
		Fetcher:       fetcher.New(),
		Extractor:     extractor.New(),
		Output:        output.New(),
		MinIO:         minio.New(),
		Database:      dbconfig.New(),
		Elasticsearch: elasticsearch.New(),
		Scheduler:     scheduler.New(),
	}
	cfg.Logging.SetDefaults()
	return cfg
}

// Load loads configuration from the specified path on top of the defaults.
// Environment variables override values from the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	// A rules key present in the file replaces the defaults wholesale; an empty
	// list keeps them.
	if len(cfg.Extractor.Rules) == 0 {
		cfg.Extractor.Rules = extractor.DefaultRules()
	}
	cfg.Logging.SetDefaults()
	return cfg, nil
}

// Validate validates every configuration section.
func (c *Config) Validate() error {
	sections := []struct {
		name     string
		validate func() error
	}{
		{"collector", c.Collector.Validate},
		{"fetcher", c.Fetcher.Validate},
		{"extractor", c.Extractor.Validate},
		{"output", c.Output.Validate},
		{"logging", c.Logging.Validate},
		{"minio", c.MinIO.Validate},
		{"database", c.Database.Validate},
		{"elasticsearch", c.Elasticsearch.Validate},
	}
	for _, s := range sections {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, s.name, err)
		}
	}
	return nil
}

// Package elasticsearch provides configuration for the Elasticsearch record sink.
package elasticsearch

import (
	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Default configuration values
const (
	DefaultAddresses = "http://127.0.0.1:9200"
	DefaultIndexName = "kinders"
)

// Config represents Elasticsearch configuration settings.
type Config struct {
	// Enabled toggles indexing of extracted records
	Enabled bool `yaml:"enabled" env:"ELASTICSEARCH_ENABLED"`
	// Addresses is the list of cluster node URLs
	Addresses []string `yaml:"addresses" env:"ELASTICSEARCH_ADDRESSES"`
	// Username for basic authentication
	Username string `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	// Password for basic authentication
	Password string `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	// APIKey takes precedence over basic authentication when set
	APIKey string `yaml:"api_key" env:"ELASTICSEARCH_API_KEY"`
	// Index receives one document per record
	Index string `yaml:"index" env:"ELASTICSEARCH_INDEX"`
}

// New returns an Elasticsearch configuration with default values.
func New() Config {
	return Config{
		Addresses: []string{DefaultAddresses},
		Index:     DefaultIndexName,
	}
}

// Validate validates the Elasticsearch configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Addresses) == 0 {
		return types.Required("addresses", c.Addresses, "elasticsearch is enabled")
	}
	if c.Index == "" {
		return types.Required("index", c.Index, "elasticsearch is enabled")
	}
	return nil
}

// Package output holds the CSV output configuration.
package output

import "github.com/tknemuru/kindergarten-collecting/internal/config/types"

// DefaultPath is where the CSV is written unless configured otherwise.
const DefaultPath = "resources/csvs/kinder.csv"

// Config represents the CSV output configuration.
type Config struct {
	// Path is the CSV destination. An existing file is overwritten.
	Path string `env:"OUTPUT_PATH" yaml:"path"`
	// BOM prefixes the file with a UTF-8 byte order mark.
	BOM bool `env:"OUTPUT_BOM" yaml:"bom"`
}

// New returns an output configuration with default values.
func New() Config {
	return Config{Path: DefaultPath}
}

// Validate validates the output configuration.
func (c *Config) Validate() error {
	if c.Path == "" {
		return &types.ValidationError{Field: "path", Value: c.Path, Reason: "must not be empty"}
	}
	return nil
}

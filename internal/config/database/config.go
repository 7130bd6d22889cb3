// Package database provides configuration for the Postgres record sink.
package database

import (
	"fmt"
	"regexp"

	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Default configuration values
const (
	DefaultHost    = "localhost"
	DefaultPort    = "5432"
	DefaultUser    = "postgres"
	DefaultDBName  = "kinders"
	DefaultSSLMode = "disable"
	DefaultTable   = "kinder_records"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents database configuration settings.
type Config struct {
	Enabled  bool   `yaml:"enabled" env:"DB_ENABLED"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
	Table    string `yaml:"table" env:"DB_TABLE"`
}

// New returns a database configuration with default values.
func New() Config {
	return Config{
		Host:    DefaultHost,
		Port:    DefaultPort,
		User:    DefaultUser,
		DBName:  DefaultDBName,
		SSLMode: DefaultSSLMode,
		Table:   DefaultTable,
	}
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Validate validates the database configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return types.Required("host", c.Host, "database is enabled")
	}
	if c.DBName == "" {
		return types.Required("dbname", c.DBName, "database is enabled")
	}
	if !tableNamePattern.MatchString(c.Table) {
		return &types.ValidationError{Field: "table", Value: c.Table, Reason: "must be a plain SQL identifier"}
	}
	return nil
}

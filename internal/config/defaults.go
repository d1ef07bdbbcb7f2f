// Package config holds configuration defaults and connection rules shared
// by the CLI and the server.
package config

import (
	"strings"
	"time"

	"github.com/leapstack-labs/leapnav/pkg/core"
)

// Default configuration values.
const (
	DefaultResourcesDir = "scripts"
	DefaultLogLevel     = "info"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultPort         = 8978
	DefaultSessionTTL   = 30 * time.Minute
	DefaultPostgresPort = 5432
)

// ApplyConnectionDefaults fills unset connection fields based on the adapter type.
func ApplyConnectionDefaults(c *core.ConnectionConfig) {
	if c == nil {
		return
	}
	c.Type = strings.ToLower(c.Type)

	if c.Schema == "" {
		c.Schema = DefaultSchemaForType(c.Type)
	}

	switch c.Type {
	case "postgres":
		if c.Host == "" {
			c.Host = "localhost"
		}
		if c.Port == 0 {
			c.Port = DefaultPostgresPort
		}
	case "duckdb", "sqlite":
		if c.Database == "" {
			c.Database = ":memory:"
		}
	}
}

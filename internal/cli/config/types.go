// Package config provides configuration management for the leapnav CLI.
//
// Configuration is layered with koanf: defaults, then leapnav.yaml, then
// LEAPNAV_ environment variables, then explicitly set command-line flags.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapnav/internal/config"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

// ConnectionConfig is an alias for the shared connection configuration.
// This allows CLI code to use config.ConnectionConfig without importing pkg/core.
type ConnectionConfig = core.ConnectionConfig

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port          int           `koanf:"port"`
	SessionSecret string        `koanf:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	Watch         bool          `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	ResourcesDir string                      `koanf:"resources_dir"`
	LogLevel     string                      `koanf:"log_level"`
	Verbose      bool                        `koanf:"verbose"`
	OutputFormat string                      `koanf:"output"`
	Server       ServerConfig                `koanf:"server"`
	Connections  map[string]ConnectionConfig `koanf:"connections"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultResourcesDir = sharedcfg.DefaultResourcesDir
	DefaultLogLevel     = sharedcfg.DefaultLogLevel
	DefaultOutput       = sharedcfg.DefaultOutput
	DefaultPort         = sharedcfg.DefaultPort
	DefaultSessionTTL   = sharedcfg.DefaultSessionTTL
)

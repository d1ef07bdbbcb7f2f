package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	sharedcfg "github.com/leapstack-labs/leapnav/internal/config"
	"github.com/leapstack-labs/leapnav/internal/navigator"
)

var validOutputs = []string{"auto", "text", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, name := range c.ConnectionNames() {
		if err := sharedcfg.ValidateConnection(name, c.Connections[name]); err != nil {
			return err
		}
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative")
	}
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q\nHint: Use one of %v", c.OutputFormat, validOutputs)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateDirectories checks that the resources directory exists.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.ResourcesDir); os.IsNotExist(err) {
		return fmt.Errorf("resources directory does not exist: %s\nHint: Create the directory or use --resources-dir to specify a different path", c.ResourcesDir)
	}
	return nil
}

// ConnectionNames returns the configured connection names, sorted.
func (c *Config) ConnectionNames() []string {
	names := make([]string, 0, len(c.Connections))
	for name := range c.Connections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NavigatorConfig returns the tree configuration for this config.
// A missing resources directory disables fs:// nodes.
func (c *Config) NavigatorConfig() navigator.Config {
	resources := c.ResourcesDir
	if c.ValidateDirectories() != nil {
		resources = ""
	}
	return navigator.Config{
		Connections:  c.Connections,
		ResourcesDir: resources,
	}
}

// ParseLogLevel converts a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid log_level %q\nHint: Use debug, info, warn or error", s)
	}
	return level, nil
}

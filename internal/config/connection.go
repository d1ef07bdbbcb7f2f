package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

// DefaultSchemaForType returns the default schema of an adapter type.
// It asks the registered adapter's dialect; unknown types fall back to "main".
func DefaultSchemaForType(dbType string) string {
	if factory, ok := adapter.Get(dbType); ok {
		if d := factory(nil).DialectConfig(); d != nil && d.DefaultSchema != "" {
			return d.DefaultSchema
		}
	}
	return "main"
}

// ValidateConnection checks a named connection.
// It uses the adapter registry to determine which adapter types are available.
func ValidateConnection(name string, c core.ConnectionConfig) error {
	if !navigator.ValidSegment(name) {
		return fmt.Errorf("invalid connection name %q\nHint: Connection names appear in node ids and cannot contain '/' or surrounding spaces", name)
	}
	if c.Type == "" {
		return fmt.Errorf("connection %s: type is required\nHint: Set connections.%s.type to one of %v", name, name, adapter.ListAdapters())
	}
	if !adapter.IsRegistered(strings.ToLower(c.Type)) {
		return fmt.Errorf("connection %s: %w", name, &adapter.UnknownAdapterError{
			Type:      c.Type,
			Available: adapter.ListAdapters(),
		})
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("connection %s: port %d out of range", name, c.Port)
	}
	return nil
}

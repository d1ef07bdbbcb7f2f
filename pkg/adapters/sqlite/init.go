// Package sqlite provides a SQLite catalog adapter for leapnav.
//
// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapnav/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) core.Adapter { return New(logger) })
}

// Package postgres provides a PostgreSQL catalog adapter for leapnav.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapnav/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) core.Adapter { return New(logger) })
}

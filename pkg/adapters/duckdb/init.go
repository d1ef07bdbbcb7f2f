// Package duckdb provides a DuckDB catalog adapter for leapnav.
//
// This file registers the DuckDB adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapnav/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) core.Adapter { return New(logger) })
}

// Package core defines the shared language of the leapnav system.
//
// This package contains:
//   - Service interfaces (Adapter)
//   - Catalog data (TableMetadata, Column, Relation)
//   - Configuration types (ConnectionConfig, AdapterConfig)
//   - Dialect configuration (quoting, placeholders, default schema)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

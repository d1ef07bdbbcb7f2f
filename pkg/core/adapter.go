package core

import (
	"context"
	"database/sql"
	"errors"
)

// ErrRelationNotFound is returned by adapters when a table or view does not exist.
var ErrRelationNotFound = errors.New("relation not found")

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// GetTableMetadata retrieves column metadata for a table or view.
	// An empty schema means the dialect's default schema.
	GetTableMetadata(ctx context.Context, schema, table string) (*TableMetadata, error)

	// ListSchemas returns the user-visible schema names.
	ListSchemas(ctx context.Context) ([]string, error)

	// LookupRelation finds a table or view. Returns ErrRelationNotFound if absent.
	LookupRelation(ctx context.Context, schema, name string) (*Relation, error)

	// ViewDefinition returns the query body of a view (without CREATE VIEW ... AS).
	ViewDefinition(ctx context.Context, schema, name string) (string, error)

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// RelationKind classifies a catalog relation.
type RelationKind string

// Relation kinds.
const (
	RelationTable RelationKind = "table"
	RelationView  RelationKind = "view"
)

// Relation identifies a table or view in the catalog.
type Relation struct {
	Schema  string
	Name    string
	Kind    RelationKind
	Comment string
}

// Column represents a column in a database table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Default    string
	Position   int
}

// TableMetadata holds metadata about a database table.
type TableMetadata struct {
	Schema  string
	Name    string
	Columns []Column
}

// PrimaryKey returns the primary key column names in ordinal order.
func (m *TableMetadata) PrimaryKey() []string {
	var keys []string
	for _, c := range m.Columns {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}

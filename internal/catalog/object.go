package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapnav/pkg/core"
)

// Kind classifies a catalog object.
type Kind string

// Object kinds.
const (
	KindDataSource Kind = "datasource"
	KindSchema     Kind = "schema"
	KindTable      Kind = "table"
	KindView       Kind = "view"
	KindColumn     Kind = "column"
)

// Object is a database catalog object.
type Object interface {
	Name() string
	Kind() Kind
	QualifiedName() string
}

// DefinitionTextProvider is implemented by objects that can generate their
// own definition text.
type DefinitionTextProvider interface {
	Object
	DefinitionText(ctx context.Context, opts Options) (string, error)
}

// AdapterFunc returns a connected adapter for a data source.
// Implementations may connect lazily on first call.
type AdapterFunc func(ctx context.Context) (core.Adapter, error)

// DataSource is a configured database connection.
type DataSource struct {
	name        string
	typ         string
	description string
	open        AdapterFunc
	logger      *slog.Logger
}

// NewDataSource creates a data source object. open is called whenever a
// child object needs the live connection.
func NewDataSource(name, typ, description string, open AdapterFunc, logger *slog.Logger) *DataSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DataSource{
		name:        name,
		typ:         typ,
		description: description,
		open:        open,
		logger:      logger,
	}
}

// Name returns the connection name.
func (d *DataSource) Name() string { return d.name }

// Kind returns KindDataSource.
func (d *DataSource) Kind() Kind { return KindDataSource }

// QualifiedName returns the connection name.
func (d *DataSource) QualifiedName() string { return d.name }

// Type returns the adapter type (duckdb, postgres, sqlite).
func (d *DataSource) Type() string { return d.typ }

// Description returns the configured description.
func (d *DataSource) Description() string { return d.description }

// Adapter returns the connected adapter for this data source.
func (d *DataSource) Adapter(ctx context.Context) (core.Adapter, error) {
	if d.open == nil {
		return nil, fmt.Errorf("data source %s has no connection", d.name)
	}
	return d.open(ctx)
}

// Schema is a namespace inside a data source.
type Schema struct {
	source *DataSource
	name   string
}

// NewSchema creates a schema object.
func NewSchema(source *DataSource, name string) *Schema {
	return &Schema{source: source, name: name}
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Kind returns KindSchema.
func (s *Schema) Kind() Kind { return KindSchema }

// QualifiedName returns the schema name.
func (s *Schema) QualifiedName() string { return s.name }

// DataSource returns the owning data source.
func (s *Schema) DataSource() *DataSource { return s.source }

// Column is a column of a table or view.
type Column struct {
	parent Object
	col    core.Column
}

// NewColumn creates a column object owned by a table or view.
func NewColumn(parent Object, col core.Column) *Column {
	return &Column{parent: parent, col: col}
}

// Name returns the column name.
func (c *Column) Name() string { return c.col.Name }

// Kind returns KindColumn.
func (c *Column) Kind() Kind { return KindColumn }

// QualifiedName returns parent.column.
func (c *Column) QualifiedName() string {
	return c.parent.QualifiedName() + "." + c.col.Name
}

// Metadata returns the column metadata.
func (c *Column) Metadata() core.Column { return c.col }

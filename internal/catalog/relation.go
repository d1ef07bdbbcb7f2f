package catalog

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapnav/pkg/core"
)

// Table is a base table.
type Table struct {
	schema *Schema
	rel    core.Relation
}

// NewTable creates a table object.
func NewTable(schema *Schema, rel core.Relation) *Table {
	return &Table{schema: schema, rel: rel}
}

// Name returns the table name.
func (t *Table) Name() string { return t.rel.Name }

// Kind returns KindTable.
func (t *Table) Kind() Kind { return KindTable }

// QualifiedName returns schema.table.
func (t *Table) QualifiedName() string { return t.schema.Name() + "." + t.rel.Name }

// Schema returns the owning schema.
func (t *Table) Schema() *Schema { return t.schema }

// Comment returns the table comment, if the catalog stores one.
func (t *Table) Comment() string { return t.rel.Comment }

// DefinitionText renders a CREATE TABLE statement from the live column metadata.
func (t *Table) DefinitionText(ctx context.Context, opts Options) (string, error) {
	so, err := DecodeScriptOptions(opts)
	if err != nil {
		return "", err
	}

	adp, err := t.schema.DataSource().Adapter(ctx)
	if err != nil {
		return "", err
	}

	meta, err := adp.GetTableMetadata(ctx, t.schema.Name(), t.rel.Name)
	if err != nil {
		return "", fmt.Errorf("failed to read table %s: %w", t.QualifiedName(), err)
	}

	return renderTable(adp.DialectConfig(), t, meta, so), nil
}

// View is a stored query.
type View struct {
	schema *Schema
	rel    core.Relation
}

// NewView creates a view object.
func NewView(schema *Schema, rel core.Relation) *View {
	return &View{schema: schema, rel: rel}
}

// Name returns the view name.
func (v *View) Name() string { return v.rel.Name }

// Kind returns KindView.
func (v *View) Kind() Kind { return KindView }

// QualifiedName returns schema.view.
func (v *View) QualifiedName() string { return v.schema.Name() + "." + v.rel.Name }

// Schema returns the owning schema.
func (v *View) Schema() *Schema { return v.schema }

// Comment returns the view comment, if the catalog stores one.
func (v *View) Comment() string { return v.rel.Comment }

// DefinitionText renders a CREATE VIEW statement from the stored view query.
func (v *View) DefinitionText(ctx context.Context, opts Options) (string, error) {
	so, err := DecodeScriptOptions(opts)
	if err != nil {
		return "", err
	}

	adp, err := v.schema.DataSource().Adapter(ctx)
	if err != nil {
		return "", err
	}

	body, err := adp.ViewDefinition(ctx, v.schema.Name(), v.rel.Name)
	if err != nil {
		return "", fmt.Errorf("failed to read view %s: %w", v.QualifiedName(), err)
	}

	return renderView(adp.DialectConfig(), v, body, so), nil
}

// NewRelation returns a Table or View object for rel.
func NewRelation(schema *Schema, rel core.Relation) Object {
	if rel.Kind == core.RelationView {
		return NewView(schema, rel)
	}
	return NewTable(schema, rel)
}

var (
	_ DefinitionTextProvider = (*Table)(nil)
	_ DefinitionTextProvider = (*View)(nil)
)

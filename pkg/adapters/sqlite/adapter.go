// Package sqlite provides a SQLite catalog adapter for leapnav.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// mainSchema is the only schema a plain SQLite database exposes.
const mainSchema = "main"

// Dialect is the static SQLite dialect configuration.
var Dialect = &core.DialectConfig{
	Name: "sqlite",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	DefaultSchema: mainSchema,
	Placeholder:   core.PlaceholderQuestion,
}

// Adapter implements core.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectConfig returns the SQLite dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return Dialect
}

// Connect opens the SQLite database file.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
		if cfg.Options["mode"] == "ro" {
			dsn += "&mode=ro"
		}
	}

	a.Logger.Debug("opening sqlite database", "path", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// GetTableMetadata retrieves column metadata from pragma_table_info.
func (a *Adapter) GetTableMetadata(ctx context.Context, schema, name string) (*core.TableMetadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	if schema != "" && !strings.EqualFold(schema, mainSchema) {
		return nil, fmt.Errorf("table %s.%s: %w", schema, name, core.ErrRelationNotFound)
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT name, type, "notnull", COALESCE(dflt_value, ''), cid, pk
		FROM pragma_table_info(?)
		ORDER BY cid
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var notNull, cid, pk int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &col.Default, &cid, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = notNull == 0 && pk == 0
		col.PrimaryKey = pk > 0
		col.Position = cid + 1
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", name, core.ErrRelationNotFound)
	}

	return &core.TableMetadata{
		Schema:  mainSchema,
		Name:    name,
		Columns: columns,
	}, nil
}

// ListSchemas returns the single "main" schema.
func (a *Adapter) ListSchemas(_ context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	return []string{mainSchema}, nil
}

// LookupRelation finds a table or view in sqlite_master.
func (a *Adapter) LookupRelation(ctx context.Context, schema, name string) (*core.Relation, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	if schema == "" {
		schema = mainSchema
	}
	if !strings.EqualFold(schema, mainSchema) {
		return nil, fmt.Errorf("%s.%s: %w", schema, name, core.ErrRelationNotFound)
	}

	var kind string
	err := a.DB.QueryRowContext(ctx, `
		SELECT type
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name = ?
	`, name).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s.%s: %w", schema, name, core.ErrRelationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up relation: %w", err)
	}

	rel := &core.Relation{Schema: mainSchema, Name: name, Kind: core.RelationTable}
	if kind == "view" {
		rel.Kind = core.RelationView
	}
	return rel, nil
}

// ViewDefinition returns the query body of a view from sqlite_master.
func (a *Adapter) ViewDefinition(ctx context.Context, schema, name string) (string, error) {
	if a.DB == nil {
		return "", adapter.ErrNotConnected
	}
	if schema != "" && !strings.EqualFold(schema, mainSchema) {
		return "", fmt.Errorf("view %s.%s: %w", schema, name, core.ErrRelationNotFound)
	}

	var stmt string
	err := a.DB.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'view' AND name = ?`, name).Scan(&stmt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("view %s: %w", name, core.ErrRelationNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read view definition: %w", err)
	}
	return adapter.ViewBody(stmt), nil
}

// Ensure Adapter implements core.Adapter interface
var _ core.Adapter = (*Adapter)(nil)

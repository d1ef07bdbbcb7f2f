// Package duckdb provides a DuckDB catalog adapter for leapnav.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Dialect is the static DuckDB dialect configuration.
var Dialect = &core.DialectConfig{
	Name: "duckdb",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
}

// Adapter implements core.Adapter for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectConfig returns the DuckDB dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return Dialect
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	dsn := path
	if params.ReadOnly && path != ":memory:" {
		dsn = path + "?access_mode=READ_ONLY"
	}

	a.Logger.Debug("opening duckdb database", "path", path)

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	if err := a.applyParams(ctx, params); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}
	return nil
}

// applyParams loads extensions and applies session settings.
func (a *Adapter) applyParams(ctx context.Context, params *Params) error {
	for _, ext := range params.Extensions {
		a.Logger.Debug("loading duckdb extension", "extension", ext)
		if err := a.Exec(ctx, fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}
	for key, value := range params.Settings {
		stmt := fmt.Sprintf("SET %s = '%s'", key, strings.ReplaceAll(value, "'", "''"))
		if err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", key, err)
		}
	}
	return nil
}

// GetTableMetadata retrieves column metadata for a table or view.
func (a *Adapter) GetTableMetadata(ctx context.Context, schema, table string) (*core.TableMetadata, error) {
	return a.GetTableMetadataCommon(ctx, schema, table, Dialect)
}

// ListSchemas returns the schemas of the attached database.
func (a *Adapter) ListSchemas(ctx context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE catalog_name = current_database()
			AND schema_name NOT IN ('information_schema', 'pg_catalog')
		ORDER BY schema_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema name: %w", err)
		}
		schemas = append(schemas, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemas: %w", err)
	}
	return schemas, nil
}

// LookupRelation finds a table or view.
func (a *Adapter) LookupRelation(ctx context.Context, schema, name string) (*core.Relation, error) {
	return a.LookupRelationCommon(ctx, schema, name, Dialect)
}

// ViewDefinition returns the query body of a view from duckdb_views().
func (a *Adapter) ViewDefinition(ctx context.Context, schema, name string) (string, error) {
	if a.DB == nil {
		return "", adapter.ErrNotConnected
	}
	if schema == "" {
		schema = Dialect.DefaultSchema
	}

	var stmt sql.NullString
	err := a.DB.QueryRowContext(ctx, `
		SELECT sql
		FROM duckdb_views()
		WHERE database_name = current_database()
			AND schema_name = ? AND view_name = ?
	`, schema, name).Scan(&stmt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("view %s.%s: %w", schema, name, core.ErrRelationNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read view definition: %w", err)
	}

	return adapter.ViewBody(stmt.String), nil
}

// Ensure Adapter implements core.Adapter interface
var _ core.Adapter = (*Adapter)(nil)

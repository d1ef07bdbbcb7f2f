package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapnav/pkg/core"
)

// ErrNotConnected is returned when an operation runs before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and information_schema based catalog lookups.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// GetTableMetadataCommon provides a shared implementation of GetTableMetadata.
// Uses information_schema with dialect-appropriate placeholders.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, schema, tableName string, d *core.DialectConfig) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	if schema == "" {
		schema = d.DefaultSchema
	}

	//nolint:gosec // Placeholders are safe - they come from DialectConfig.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			COALESCE(column_default, ''),
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Default, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s: %w", schema, tableName, core.ErrRelationNotFound)
	}

	keys, err := b.PrimaryKeyColumns(ctx, schema, tableName, d)
	if err != nil {
		// Views and some catalogs have no constraint tables; columns are still usable.
		if b.Logger != nil {
			b.Logger.Debug("primary key lookup failed", "table", schema+"."+tableName, "error", err)
		}
	}
	for i := range columns {
		columns[i].PrimaryKey = keys[columns[i].Name]
	}

	return &core.TableMetadata{
		Schema:  schema,
		Name:    tableName,
		Columns: columns,
	}, nil
}

// PrimaryKeyColumns returns the primary key column names of a table as a set.
func (b *BaseSQLAdapter) PrimaryKeyColumns(ctx context.Context, schema, table string, d *core.DialectConfig) (map[string]bool, error) {
	//nolint:gosec // Placeholders are safe - they come from DialectConfig.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = %s AND tc.table_name = %s
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan primary key: %w", err)
		}
		keys[name] = true
	}
	return keys, rows.Err()
}

// ListSchemasCommon lists schemas from information_schema.schemata,
// skipping system schemas.
func (b *BaseSQLAdapter) ListSchemasCommon(ctx context.Context) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	rows, err := b.DB.QueryContext(ctx, `
		SELECT DISTINCT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
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

// LookupRelationCommon finds a table or view in information_schema.tables.
func (b *BaseSQLAdapter) LookupRelationCommon(ctx context.Context, schema, name string, d *core.DialectConfig) (*core.Relation, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	if schema == "" {
		schema = d.DefaultSchema
	}

	//nolint:gosec // Placeholders are safe - they come from DialectConfig.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT table_type
		FROM information_schema.tables
		WHERE table_schema = %s AND table_name = %s
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	var tableType string
	err := b.DB.QueryRowContext(ctx, query, schema, name).Scan(&tableType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s.%s: %w", schema, name, core.ErrRelationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up relation: %w", err)
	}

	return &core.Relation{
		Schema: schema,
		Name:   name,
		Kind:   relationKind(tableType),
	}, nil
}

// relationKind maps information_schema.tables.table_type to a RelationKind.
func relationKind(tableType string) core.RelationKind {
	if strings.Contains(strings.ToUpper(tableType), "VIEW") {
		return core.RelationView
	}
	return core.RelationTable
}

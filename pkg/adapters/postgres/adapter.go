// Package postgres provides a PostgreSQL catalog adapter for leapnav.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/leapnav/pkg/adapter"
	"github.com/leapstack-labs/leapnav/pkg/core"
)

// Dialect is the static PostgreSQL dialect configuration.
var Dialect = &core.DialectConfig{
	Name: "postgres",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase,
	},
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
}

// Adapter implements core.Adapter for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectConfig returns the PostgreSQL dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return Dialect
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg core.AdapterConfig) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", "host", cfg.Host, "database", cfg.Database)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.AdapterConfig) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(sslmode))

	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}
	if appName, ok := cfg.Options["application_name"]; ok {
		dsn += " application_name=" + dsnValue(appName)
	}

	return dsn
}

// dsnValue quotes a keyword/value connection string value when it is empty
// or contains whitespace, quotes or backslashes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// GetTableMetadata retrieves column metadata from pg_catalog so that
// types keep their modifiers (varchar(64), numeric(10,2)).
func (a *Adapter) GetTableMetadata(ctx context.Context, schema, tableName string) (*core.TableMetadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}
	if schema == "" {
		schema = Dialect.DefaultSchema
	}

	rows, err := a.DB.QueryContext(ctx, `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			NOT a.attnotnull,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			a.attnum
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relname = $2
			AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum
	`, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s: %w", schema, tableName, core.ErrRelationNotFound)
	}

	keys, err := a.PrimaryKeyColumns(ctx, schema, tableName, Dialect)
	if err != nil {
		a.Logger.Debug("primary key lookup failed", "table", schema+"."+tableName, "error", err)
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

// ListSchemas returns the user schemas.
func (a *Adapter) ListSchemas(ctx context.Context) ([]string, error) {
	return a.ListSchemasCommon(ctx)
}

// LookupRelation finds a table or view, including its comment.
func (a *Adapter) LookupRelation(ctx context.Context, schema, name string) (*core.Relation, error) {
	rel, err := a.LookupRelationCommon(ctx, schema, name, Dialect)
	if err != nil {
		return nil, err
	}

	var comment sql.NullString
	err = a.DB.QueryRowContext(ctx, `
		SELECT obj_description(c.oid, 'pg_class')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`, rel.Schema, rel.Name).Scan(&comment)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		a.Logger.Debug("comment lookup failed", "relation", name, "error", err)
	}
	rel.Comment = comment.String
	return rel, nil
}

// ViewDefinition returns the query body of a view via pg_get_viewdef.
func (a *Adapter) ViewDefinition(ctx context.Context, schema, name string) (string, error) {
	if a.DB == nil {
		return "", adapter.ErrNotConnected
	}
	if schema == "" {
		schema = Dialect.DefaultSchema
	}

	var def sql.NullString
	err := a.DB.QueryRowContext(ctx, `
		SELECT pg_get_viewdef(c.oid, true)
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND c.relkind IN ('v', 'm')
	`, schema, name).Scan(&def)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("view %s.%s: %w", schema, name, core.ErrRelationNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read view definition: %w", err)
	}

	return adapter.ViewBody(def.String), nil
}

// Ensure Adapter implements core.Adapter interface
var _ core.Adapter = (*Adapter)(nil)

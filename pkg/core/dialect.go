package core

import (
	"strconv"
	"strings"
)

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data plus formatting helpers; adapters return it from DialectConfig().
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (SQLite, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
func (d *DialectConfig) FormatPlaceholder(index int) string {
	if d.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(index)
	}
	return "?"
}

// QuoteIdentifier quotes name when it would not survive as a bare identifier.
func (d *DialectConfig) QuoteIdentifier(name string) string {
	if isPlainIdentifier(name, d.Identifiers.Normalization) {
		return name
	}
	q, qe := d.Identifiers.Quote, d.Identifiers.QuoteEnd
	if q == "" {
		q = `"`
	}
	if qe == "" {
		qe = q
	}
	esc := d.Identifiers.Escape
	if esc == "" {
		esc = qe + qe
	}
	return q + strings.ReplaceAll(name, qe, esc) + qe
}

// QualifiedName joins and quotes schema and name.
func (d *DialectConfig) QualifiedName(schema, name string) string {
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

func isPlainIdentifier(name string, norm NormalizationStrategy) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
			// Mixed case only survives unquoted where folding is not applied.
			if norm == NormLowercase || norm == NormUppercase {
				return false
			}
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return !reservedWords[strings.ToLower(name)]
}

// reservedWords lists keywords that always need quoting as identifiers.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "by": true, "case": true, "check": true,
	"column": true, "constraint": true, "create": true, "default": true, "distinct": true,
	"drop": true, "else": true, "from": true, "group": true, "having": true, "in": true,
	"index": true, "join": true, "key": true, "not": true, "null": true, "on": true,
	"or": true, "order": true, "primary": true, "references": true, "select": true,
	"table": true, "then": true, "to": true, "union": true, "unique": true, "user": true,
	"view": true, "when": true, "where": true, "with": true,
}

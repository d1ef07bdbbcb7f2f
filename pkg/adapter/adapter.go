// Package adapter provides the database adapter registry and shared
// database/sql plumbing for leapnav's catalog adapters.
//
// The adapter contract itself is core.Adapter. Concrete adapter
// implementations live in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import (
	"regexp"
	"strings"
)

// createViewPrefix matches the "CREATE [OR REPLACE] [TEMP] VIEW name [(cols)] AS" head of a view statement.
var createViewPrefix = regexp.MustCompile(`(?is)^\s*CREATE\s+(?:OR\s+REPLACE\s+)?(?:TEMP(?:ORARY)?\s+)?VIEW\s+.+?\s+AS\s+`)

// ViewBody strips the CREATE VIEW head and trailing semicolon from a stored
// view statement, leaving the query body. Input without a CREATE VIEW head
// is returned trimmed.
func ViewBody(stmt string) string {
	body := createViewPrefix.ReplaceAllString(stmt, "")
	body = strings.TrimSpace(body)
	return strings.TrimSpace(strings.TrimSuffix(body, ";"))
}

// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // registers the "sqlite" driver used to seed fixtures
)

// ProjectConfig is the leapnav.yaml written by SetupTestProject.
const ProjectConfig = `resources_dir: scripts
log_level: debug
output: text
server:
  port: 0
  session_secret: test-secret
  watch: false
connections:
  local:
    type: sqlite
    database: nav.sqlite
    description: test database
`

// SetupTestProject creates a temporary project with a SQLite database
// holding the users table and the active_users view, plus a scripts
// directory with one resource file. Returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, "scripts", "reports"), 0755); err != nil {
		t.Fatalf("failed to create scripts directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "scripts", "reports", "daily.sql"),
		[]byte("SELECT 1;\n"), 0644); err != nil {
		t.Fatalf("failed to create daily.sql: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "leapnav.yaml"), []byte(ProjectConfig), 0644); err != nil {
		t.Fatalf("failed to create leapnav.yaml: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(tmpDir, "nav.sqlite"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL, active INTEGER DEFAULT 1)",
		"CREATE VIEW active_users AS SELECT id, email FROM users WHERE active = 1",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed database: %v", err)
		}
	}

	return tmpDir
}

// ConfigPath returns the config file of a project created by SetupTestProject.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "leapnav.yaml")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapnav/internal/datatransfer"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/leapstack-labs/leapnav/internal/testutil"
	"github.com/leapstack-labs/leapnav/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapnav/pkg/adapters/duckdb"
)

type response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

// newTestServer serves the GraphQL handler over an in-memory DuckDB catalog.
// Every request runs in the same session unless withSession is false.
func newTestServer(t *testing.T, withSession bool) *httptest.Server {
	t.Helper()

	resources := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(resources, "notes.sql"), []byte("-- notes"), 0o600))

	logger := testutil.NewTestLogger(t)
	tree := navigator.NewTree(navigator.Config{
		Connections: map[string]core.ConnectionConfig{
			"local": {Type: "duckdb", Database: ":memory:"},
		},
		ResourcesDir: resources,
	}, logger)
	t.Cleanup(func() { _ = tree.Close() })

	ctx := context.Background()
	adp, err := tree.Adapter(ctx, "local")
	require.NoError(t, err)
	for _, stmt := range []string{
		"CREATE SCHEMA sales",
		"CREATE TABLE sales.orders (id INTEGER, customer VARCHAR NOT NULL, amount DECIMAL(10,2))",
		"CREATE VIEW sales.big_orders AS SELECT id, amount FROM sales.orders WHERE amount > 100",
	} {
		require.NoError(t, adp.Exec(ctx, stmt))
	}

	resolver := datatransfer.NewResolver(session.NewNodeRegistry(tree), logger)
	schema, err := NewSchema(resolver, "test")
	require.NoError(t, err)

	var handler http.Handler = NewHandler(schema, logger)
	if withSession {
		sess := session.New("test")
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, query string, vars map[string]any) response {
	t.Helper()

	body, err := json.Marshal(Request{Query: query, Variables: vars})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func ddl(t *testing.T, out response) string {
	t.Helper()
	require.Empty(t, out.Errors)
	var text string
	require.NoError(t, json.Unmarshal(out.Data[datatransfer.FieldGetNodeDDL], &text))
	return text
}

const ddlQuery = `query ($id: ID!, $opts: Object) { dataTransferGetNodeDDL(nodeId: $id, options: $opts) }`

func TestHandler_GetNodeDDL(t *testing.T) {
	srv := newTestServer(t, true)

	t.Run("table", func(t *testing.T) {
		text := ddl(t, post(t, srv, ddlQuery, map[string]any{"id": "db://local/sales/orders"}))
		assert.Contains(t, text, "CREATE TABLE sales.orders (")
		assert.Contains(t, text, "customer VARCHAR NOT NULL")
		assert.Contains(t, text, "amount DECIMAL(10,2)")
	})

	t.Run("view with variable options", func(t *testing.T) {
		text := ddl(t, post(t, srv, ddlQuery, map[string]any{
			"id":   "db://local/sales/big_orders",
			"opts": map[string]any{"script.includeDrop": true, "script.format.fullNames": false},
		}))
		assert.Contains(t, text, "DROP VIEW IF EXISTS big_orders;\nCREATE OR REPLACE VIEW big_orders AS")
		assert.Contains(t, text, "amount > 100")
	})

	t.Run("inline options literal", func(t *testing.T) {
		out := post(t, srv, `{ dataTransferGetNodeDDL(nodeId: "db://local/sales/orders", options: {script: {format: {compact: true}}}) }`, nil)
		text := ddl(t, out)
		assert.NotContains(t, text, "\n")
		assert.Contains(t, text, "CREATE TABLE sales.orders (id INTEGER")
	})
}

func TestHandler_GetNodeDDL_Errors(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		id      string
		message string
		code    string
	}{
		{"does-not-exist", "node 'does-not-exist' not found", datatransfer.CodeNodeNotFound},
		{"fs://notes.sql", "node 'fs://notes.sql' is not database node", datatransfer.CodeNotDatabaseNode},
		{"folder://local/sales/tables", "node 'folder://local/sales/tables' is not database node", datatransfer.CodeNotDatabaseNode},
		{"DB://local/SALES", "object 'db://local/sales' doesn't support DDL", datatransfer.CodeUnsupportedOperation},
		{"db://local/sales/orders/id", "object 'db://local/sales/orders/id' doesn't support DDL", datatransfer.CodeUnsupportedOperation},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			out := post(t, srv, ddlQuery, map[string]any{"id": tt.id})
			require.Len(t, out.Errors, 1)
			assert.Contains(t, out.Errors[0].Message, tt.message)
			assert.Equal(t, tt.code, out.Errors[0].Extensions["code"])
			assert.Equal(t, "null", string(out.Data[datatransfer.FieldGetNodeDDL]))
		})
	}
}

func TestHandler_NavNodeInfo(t *testing.T) {
	srv := newTestServer(t, true)

	out := post(t, srv, `{ navNodeInfo(nodeId: "db://local/sales/big_orders") { id name nodeType catalog supportsDDL } }`, nil)
	require.Empty(t, out.Errors)

	var info datatransfer.NodeInfo
	require.NoError(t, json.Unmarshal(out.Data[datatransfer.FieldNavNodeInfo], &info))
	assert.Equal(t, datatransfer.NodeInfo{
		ID:          "db://local/sales/big_orders",
		Name:        "big_orders",
		NodeType:    "view",
		Catalog:     true,
		SupportsDDL: true,
	}, info)
}

func TestHandler_NoSession(t *testing.T) {
	srv := newTestServer(t, false)

	out := post(t, srv, ddlQuery, map[string]any{"id": "db://local/sales/orders"})
	require.Len(t, out.Errors, 1)
	assert.Equal(t, datatransfer.CodeNoSession, out.Errors[0].Extensions["code"])
}

func TestHandler_Get(t *testing.T) {
	srv := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "?query=" + url.QueryEscape("{ serverVersion }"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.JSONEq(t, `"test"`, string(out.Data["serverVersion"]))
}

func TestHandler_BadRequests(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"missing query", http.MethodPost, `{}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, `{`, http.StatusBadRequest},
		{"wrong method", http.MethodPut, `{"query":"{ serverVersion }"}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL, bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapnav/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql:       "CREATE TABLE users (id INT)",
			expectErr: false,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			err := base.Exec(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "query without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "query success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name"}).
					AddRow(1, "alice").
					AddRow(2, "bob")
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			},
			sql:       "SELECT id, name FROM users",
			expectErr: false,
		},
		{
			name:    "query with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INVALID").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			rows, err := base.Query(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				assert.Nil(t, rows)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, rows)
				defer func() { _ = rows.Close() }()
			}
		})
	}
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	tests := []struct {
		name     string
		setupDB  bool
		expected bool
	}{
		{
			name:     "not connected",
			setupDB:  false,
			expected: false,
		},
		{
			name:     "connected",
			setupDB:  true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, _, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				base.DB = db
			}

			assert.Equal(t, tt.expected, base.IsConnected())
		})
	}
}

var testDialect = &core.DialectConfig{
	Name:          "test",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
}

func TestBaseSQLAdapter_GetTableMetadataCommon(t *testing.T) {
	ctx := context.Background()

	t.Run("not connected", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		_, err := base.GetTableMetadataCommon(ctx, "", "orders", testDialect)
		require.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("columns with primary key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("sales", "orders").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
				AddRow("id", "INTEGER", "NO", "", 1).
				AddRow("note", "VARCHAR", "YES", "'n/a'", 2))
		mock.ExpectQuery("PRIMARY KEY").
			WithArgs("sales", "orders").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

		base := &BaseSQLAdapter{DB: db}
		meta, err := base.GetTableMetadataCommon(ctx, "sales", "orders", testDialect)
		require.NoError(t, err)

		assert.Equal(t, "sales", meta.Schema)
		assert.Equal(t, "orders", meta.Name)
		require.Len(t, meta.Columns, 2)
		assert.True(t, meta.Columns[0].PrimaryKey)
		assert.False(t, meta.Columns[0].Nullable)
		assert.False(t, meta.Columns[1].PrimaryKey)
		assert.True(t, meta.Columns[1].Nullable)
		assert.Equal(t, "'n/a'", meta.Columns[1].Default)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("primary key lookup failure is not fatal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("FROM information_schema.columns").
			WithArgs("main", "v_orders").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
				AddRow("id", "INTEGER", "YES", "", 1))
		mock.ExpectQuery("PRIMARY KEY").WillReturnError(assert.AnError)

		base := &BaseSQLAdapter{DB: db}
		meta, err := base.GetTableMetadataCommon(ctx, "", "v_orders", testDialect)
		require.NoError(t, err)
		require.Len(t, meta.Columns, 1)
		assert.False(t, meta.Columns[0].PrimaryKey)
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("FROM information_schema.columns").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}))

		base := &BaseSQLAdapter{DB: db}
		_, err = base.GetTableMetadataCommon(ctx, "main", "missing", testDialect)
		require.ErrorIs(t, err, core.ErrRelationNotFound)
	})
}

func TestBaseSQLAdapter_ListSchemasCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.schemata").
		WillReturnRows(sqlmock.NewRows([]string{"schema_name"}).AddRow("main").AddRow("sales"))

	base := &BaseSQLAdapter{DB: db}
	schemas, err := base.ListSchemasCommon(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "sales"}, schemas)
}

func TestBaseSQLAdapter_LookupRelationCommon(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		setupMock func(mock sqlmock.Sqlmock)
		wantKind  core.RelationKind
		wantErr   error
	}{
		{
			name:   "base table",
			schema: "main",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM information_schema.tables").
					WithArgs("main", "orders").
					WillReturnRows(sqlmock.NewRows([]string{"table_type"}).AddRow("BASE TABLE"))
			},
			wantKind: core.RelationTable,
		},
		{
			name:   "view with default schema",
			schema: "",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM information_schema.tables").
					WithArgs("main", "orders").
					WillReturnRows(sqlmock.NewRows([]string{"table_type"}).AddRow("VIEW"))
			},
			wantKind: core.RelationView,
		},
		{
			name:   "not found",
			schema: "main",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM information_schema.tables").
					WillReturnRows(sqlmock.NewRows([]string{"table_type"}))
			},
			wantErr: core.ErrRelationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			base := &BaseSQLAdapter{DB: db}
			rel, err := base.LookupRelationCommon(context.Background(), tt.schema, "orders", testDialect)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, rel.Kind)
			assert.Equal(t, "main", rel.Schema)
		})
	}
}

func TestViewBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "CREATE VIEW v AS SELECT 1;", "SELECT 1"},
		{"or replace temp", "create or replace temporary view main.v as\nselect a as b from t", "select a as b from t"},
		{"column list", `CREATE VIEW "v"(a, b) AS SELECT 1, 2;`, "SELECT 1, 2"},
		{"body only", "  SELECT * FROM orders;  ", "SELECT * FROM orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ViewBody(tt.input))
		})
	}
}

package core

// ConnectionConfig holds the configuration of one navigator data source.
type ConnectionConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, sqlite

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Schema is the default schema shown for the connection
	Schema string `koanf:"schema"`

	// Description is shown in connection listings
	Description string `koanf:"description"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the connection into the config passed to Adapter.Connect.
func (c *ConnectionConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     c.Type,
		Path:     c.Database,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.User,
		Password: c.Password,
		Schema:   c.Schema,
		Options:  c.Options,
		Params:   c.Params,
	}
}

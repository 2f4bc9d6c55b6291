package core

import (
	"context"
)

// Executor runs a read query with bound arguments and materializes the result.
type Executor interface {
	Query(ctx context.Context, sql string, args ...any) (*Table, error)
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	Executor

	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string

	// BigQuery
	Project         string
	CredentialsFile string
	CredentialsJSON string

	Options map[string]string
	Params  map[string]any
}

// DialectConfig is the static SQL configuration of a backend.
type DialectConfig struct {
	Name          string
	DefaultSchema string
	Placeholder   PlaceholderStyle
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, SQLite, BigQuery positional).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

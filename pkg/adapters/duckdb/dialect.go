package duckdb

import (
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// Dialect is the DuckDB SQL dialect.
var Dialect = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`).
	DefaultSchema("main").
	Build()

package postgres

import (
	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// Dialect is the PostgreSQL SQL dialect.
var Dialect = dialect.NewDialect("postgres").
	Identifiers(`"`, `"`, `""`).
	DefaultSchema("public").
	PlaceholderStyle(core.PlaceholderDollar).
	Build()

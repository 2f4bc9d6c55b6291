package sqlite

import "github.com/leapstack-labs/refdash/pkg/dialect"

// Dialect is the SQLite SQL dialect. Dates are ISO text, so date() normalizes both sides.
var Dialect = dialect.NewDialect("sqlite").
	Identifiers(`"`, `"`, `""`).
	DefaultSchema("main").
	DateCast("date(%s)").
	CurrentDate("date('now')").
	Build()

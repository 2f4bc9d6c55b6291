package bigquery

import "github.com/leapstack-labs/refdash/pkg/dialect"

// Dialect is the GoogleSQL dialect. Table paths are quoted as a whole: `project.dataset.table`.
var Dialect = dialect.NewDialect("bigquery").
	Identifiers("`", "`", "\\`").
	DefaultSchema("").
	Build()

// Package postgres provides a PostgreSQL database adapter for refdash.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/refdash/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

func init() {
	dialect.Register(Dialect)
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

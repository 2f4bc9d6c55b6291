// Package bigquery provides a Google BigQuery adapter for refdash.
//
// This file registers the BigQuery adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/refdash/pkg/adapters/bigquery"
package bigquery

import (
	"log/slog"

	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

func init() {
	dialect.Register(Dialect)
	adapter.Register("bigquery", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Package adapter provides the database adapter contract, the adapter
// registry, and a database/sql base implementation.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"github.com/leapstack-labs/refdash/pkg/core"
)

type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig
)

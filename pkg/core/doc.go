// Package core defines the shared language of the refdash system.
//
// This package contains:
//   - Domain entities (Measurement, Spectrum, Sample, StatusRow, Filter)
//   - Service interfaces (Adapter, Executor)
//   - Query results (Table, Record)
//   - Named error kinds shared across packages
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

// Package reference implements the dashboard pipeline for spectroscopy
// reference measurements: the queries, their memoization, decoding of raw
// rows, and shaping into per-wavelength samples.
package reference

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// QueryKind names one of the dashboard's queries.
type QueryKind string

// Query kinds.
const (
	KindStatus       QueryKind = "status"
	KindSystems      QueryKind = "systems"
	KindMeasurements QueryKind = "measurements"
)

// QueryKinds lists every kind, for validation.
var QueryKinds = []QueryKind{KindStatus, KindSystems, KindMeasurements}

// DefaultCachedQueries memoizes only the status board.
var DefaultCachedQueries = []QueryKind{KindStatus}

// DefaultTable is used when no table is configured.
const DefaultTable = "system_references"

// Config configures a Repository.
type Config struct {
	Table         string
	Dialect       *dialect.Dialect
	CacheTTL      time.Duration
	CachedQueries []QueryKind
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Repository runs the dashboard queries, routing the configured kinds through the cache.
type Repository struct {
	exec    core.Executor
	cache   *Cache
	cached  map[QueryKind]bool
	queries *QueryBuilder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Inspection is the result of the main query after shaping.
type Inspection struct {
	Filter       core.Filter
	Measurements []core.Measurement
	Samples      []core.Sample
}

// NewRepository creates a repository over exec.
func NewRepository(exec core.Executor, cfg Config) *Repository {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	kinds := cfg.CachedQueries
	if kinds == nil {
		kinds = DefaultCachedQueries
	}
	cached := make(map[QueryKind]bool, len(kinds))
	for _, k := range kinds {
		cached[k] = true
	}

	return &Repository{
		exec:    exec,
		cache:   NewCache(exec, cfg.CacheTTL, cfg.Metrics),
		cached:  cached,
		queries: NewQueryBuilder(cfg.Dialect, table),
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Cache returns the repository's query cache.
func (r *Repository) Cache() *Cache {
	return r.cache
}

// Queries returns the query builder.
func (r *Repository) Queries() *QueryBuilder {
	return r.queries
}

func (r *Repository) run(ctx context.Context, kind QueryKind, sql string, args ...any) (*core.Table, error) {
	var exec core.Executor = r.exec
	if r.cached[kind] {
		exec = r.cache
	}

	start := time.Now()
	table, err := exec.Query(ctx, sql, args...)
	elapsed := time.Since(start)
	r.metrics.RecordQuery(string(kind), elapsed, err)

	if err != nil {
		r.logger.Error("query failed", "kind", kind, "error", err)
		return nil, fmt.Errorf("%s query: %w", kind, err)
	}
	r.logger.Debug("query complete", "kind", kind, "rows", table.Len(), "duration", elapsed)
	return table, nil
}

// Status returns one row per system, flagged when it has a record dated today.
func (r *Repository) Status(ctx context.Context) ([]core.StatusRow, error) {
	table, err := r.run(ctx, KindStatus, r.queries.Status())
	if err != nil {
		return nil, err
	}
	rows, err := DecodeStatus(table)
	if err != nil {
		return nil, err
	}

	recorded := 0
	for _, row := range rows {
		if row.RecordExistsToday {
			recorded++
		}
	}
	r.metrics.SetStatus(recorded, len(rows)-recorded)
	return rows, nil
}

// Systems returns the distinct system names.
func (r *Repository) Systems(ctx context.Context) ([]string, error) {
	table, err := r.run(ctx, KindSystems, r.queries.Systems())
	if err != nil {
		return nil, err
	}
	return table.Strings(ColSystem)
}

// Measurements returns the records matching f, newest first.
func (r *Repository) Measurements(ctx context.Context, f core.Filter) ([]core.Measurement, error) {
	if !core.ValidChannel(f.Channel) {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidChannel, f.Channel)
	}
	sql, args := r.queries.Measurements(f)
	table, err := r.run(ctx, KindMeasurements, sql, args...)
	if err != nil {
		return nil, err
	}
	return DecodeMeasurements(table)
}

// Inspect runs the main query and shapes the result.
func (r *Repository) Inspect(ctx context.Context, f core.Filter) (*Inspection, error) {
	ms, err := r.Measurements(ctx, f)
	if err != nil {
		return nil, err
	}
	samples, err := Shape(ms)
	if err != nil {
		return nil, err
	}
	r.metrics.AddSamples(len(samples))
	return &Inspection{Filter: f, Measurements: ms, Samples: samples}, nil
}

// Package sqlite provides a SQLite database adapter for refdash.
//
// SQLite has no DATE or STRUCT types: dates are stored as ISO text and the
// Spectra column holds a JSON array of {"Wavelengths", "Counts"} objects.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/leapstack-labs/refdash/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect opens the SQLite database file named by cfg.Path (or cfg.Database).
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)

	a.Logger.Debug("opening sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Each new :memory: connection is a separate empty database.
	if isMemory(cfg) {
		db.SetMaxOpenConns(1)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func isMemory(cfg adapter.Config) bool {
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	return path == "" || path == ":memory:"
}

// buildDSN appends target options as pragma query parameters.
func buildDSN(cfg adapter.Config) string {
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, cfg.Options[k]))
	}
	return "file:" + path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)

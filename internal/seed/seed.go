// Package seed loads reference measurement fixtures into local databases and
// manages their schema.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// ErrUnsupportedBackend is returned for backends that cannot be seeded locally.
var ErrUnsupportedBackend = errors.New("backend not supported")

// Execer runs statements that return no rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// columnTypes are the storage types of the measurement columns for one backend.
// Spectra is stored as JSON text.
type columnTypes struct {
	text, integer, double, date, uuid, spectra string
}

var schemas = map[string]columnTypes{
	"duckdb":   {text: "VARCHAR", integer: "INTEGER", double: "DOUBLE", date: "DATE", uuid: "VARCHAR", spectra: "VARCHAR"},
	"postgres": {text: "TEXT", integer: "INTEGER", double: "DOUBLE PRECISION", date: "DATE", uuid: "UUID", spectra: "JSONB"},
	"sqlite":   {text: "TEXT", integer: "INTEGER", double: "REAL", date: "TEXT", uuid: "TEXT", spectra: "TEXT"},
}

// Supported reports whether the backend can be seeded.
func Supported(dialectName string) bool {
	_, ok := schemas[dialectName]
	return ok
}

// FileResult reports one loaded fixture file.
type FileResult struct {
	Name string
	Path string
	Rows int
}

// Seeder writes measurements into the reference table.
type Seeder struct {
	exec    Execer
	dialect *dialect.Dialect
	types   columnTypes
	table   string
	logger  *slog.Logger
}

// New creates a seeder for table on the given backend dialect.
func New(exec Execer, d *dialect.Dialect, table string, logger *slog.Logger) (*Seeder, error) {
	if d == nil {
		return nil, fmt.Errorf("dialect is required")
	}
	types, ok := schemas[d.Name]
	if !ok {
		return nil, fmt.Errorf("%w: seeding %s", ErrUnsupportedBackend, d.Name)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if table == "" {
		table = reference.DefaultTable
	}
	return &Seeder{exec: exec, dialect: d, types: types, table: table, logger: logger}, nil
}

// EnsureTable creates the reference table when absent.
func (s *Seeder) EnsureTable(ctx context.Context) error {
	q := s.dialect.QuoteIdentifier
	cols := []string{
		q(reference.ColSystem) + " " + s.types.text + " NOT NULL",
		q(reference.ColChannel) + " " + s.types.integer + " NOT NULL",
		q(reference.ColDate) + " " + s.types.date + " NOT NULL",
		q(reference.ColOperator) + " " + s.types.text,
		q(reference.ColIntegration) + " " + s.types.double,
		q(reference.ColAveraging) + " " + s.types.double,
		q(reference.ColSpectraUUID) + " " + s.types.uuid + " NOT NULL",
		q(reference.ColSpectra) + " " + s.types.spectra + " NOT NULL",
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		s.dialect.QuoteTable(s.table), strings.Join(cols, ",\n\t"))
	if err := s.exec.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Truncate removes every row from the reference table.
func (s *Seeder) Truncate(ctx context.Context) error {
	if err := s.exec.Exec(ctx, "DELETE FROM "+s.dialect.QuoteTable(s.table)); err != nil {
		return fmt.Errorf("truncate %s: %w", s.table, err)
	}
	return nil
}

// Insert writes measurements one row at a time.
func (s *Seeder) Insert(ctx context.Context, ms []core.Measurement) (int, error) {
	stmt := s.insertSQL()
	for i, m := range ms {
		spectra, err := json.Marshal(m.Spectra)
		if err != nil {
			return i, fmt.Errorf("encode spectra of %s: %w", m.SpectraUUID, err)
		}
		err = s.exec.Exec(ctx, stmt,
			m.System,
			m.Channel,
			m.Date.Format(core.DateLayout),
			m.Operator,
			m.SpectrometerIntegration,
			m.SpectrometerAveraging,
			m.SpectraUUID,
			string(spectra),
		)
		if err != nil {
			return i, fmt.Errorf("insert %s: %w", m.SpectraUUID, err)
		}
	}
	return len(ms), nil
}

func (s *Seeder) insertSQL() string {
	cols := make([]string, len(reference.MeasurementColumns))
	phs := make([]string, len(reference.MeasurementColumns))
	for i, c := range reference.MeasurementColumns {
		cols[i] = s.dialect.QuoteIdentifier(c)
		ph := s.dialect.FormatPlaceholder(i + 1)
		if c == reference.ColDate {
			ph = s.dialect.CastDate(ph)
		}
		phs[i] = ph
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteTable(s.table), strings.Join(cols, ", "), strings.Join(phs, ", "))
}

// FixtureFiles lists the fixture files in dir in name order.
// A missing directory yields no files.
func FixtureFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir replaces the table contents with every fixture in dir.
// Fixtures are parsed before the table is touched.
func (s *Seeder) LoadDir(ctx context.Context, dir string) ([]FileResult, error) {
	files, err := FixtureFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	loaded := make([][]core.Measurement, len(files))
	for i, path := range files {
		ms, err := ReadFixtureFile(path)
		if err != nil {
			return nil, err
		}
		loaded[i] = ms
	}

	if err := s.EnsureTable(ctx); err != nil {
		return nil, err
	}
	if err := s.Truncate(ctx); err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(files))
	for i, path := range files {
		n, err := s.Insert(ctx, loaded[i])
		if err != nil {
			return results, fmt.Errorf("%s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), FileExt)
		s.logger.Info("seed loaded", "file", name, "rows", n, "table", s.table)
		results = append(results, FileResult{Name: name, Path: path, Rows: n})
	}
	return results, nil
}

// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/internal/testutil"
	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/internal/ui/notifier"
	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/adapters/duckdb"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// TestTable is the table the fixture seeds.
const TestTable = "refs"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Adapter    core.Adapter
	Seeder     *seed.Seeder
	Repository *reference.Repository
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Notifier   *notifier.Notifier
	Sessions   *sessions.CookieStore
	Now        time.Time
}

// SetupTestFixture creates an in-memory DuckDB holding ms and the handler dependencies around it.
func SetupTestFixture(t *testing.T, ms ...core.Measurement) *TestFixture {
	t.Helper()
	ctx := context.Background()
	logger := testutil.NewTestLogger(t)

	adp, err := adapter.Open(ctx, core.AdapterConfig{Type: "duckdb", Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adp.Close() })

	s, err := seed.New(adp, duckdb.Dialect, TestTable, logger)
	require.NoError(t, err)
	require.NoError(t, s.EnsureTable(ctx))
	_, err = s.Insert(ctx, ms)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	repo := reference.NewRepository(adp, reference.Config{
		Table:   TestTable,
		Dialect: duckdb.Dialect,
		Metrics: m,
		Logger:  logger,
	})

	return &TestFixture{
		Adapter:    adp,
		Seeder:     s,
		Repository: repo,
		Registry:   reg,
		Metrics:    m,
		Notifier:   notifier.New(),
		Sessions:   sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
		Now:        time.Now(),
	}
}

// Deps returns handler dependencies backed by the fixture.
func (f *TestFixture) Deps(t *testing.T) common.Deps {
	t.Helper()
	return common.Deps{
		Repository:   f.Repository,
		Exporter:     &export.Exporter{Policy: export.DuplicatesMean, Metrics: f.Metrics},
		Charts:       charts.Renderer{Width: 640, Height: 320},
		Sessions:     f.Sessions,
		Notifier:     f.Notifier,
		Metrics:      f.Metrics,
		QueryTimeout: 5 * time.Second,
		Now:          func() time.Time { return f.Now },
		Logger:       testutil.NewTestLogger(t),
	}
}

// Measurement builds a record with n samples starting at 400 nm.
func Measurement(system string, channel int, date time.Time, id string, n int) core.Measurement {
	spec := core.Spectrum{}
	for i := 0; i < n; i++ {
		spec.Wavelengths = append(spec.Wavelengths, 400+float64(i))
		spec.Counts = append(spec.Counts, float64(100*(i+1)))
	}
	return core.Measurement{
		System:                  system,
		Channel:                 channel,
		Date:                    core.TruncateDay(date),
		Operator:                "op",
		SpectrometerIntegration: 100,
		SpectrometerAveraging:   5,
		SpectraUUID:             id,
		Spectra:                 []core.Spectrum{spec},
	}
}

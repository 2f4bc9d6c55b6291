package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_ConnectAppliesSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"settings": map[string]any{"threads": 2}},
	}))
	defer func() { _ = adp.Close() }()

	table, err := adp.Query(ctx, "SELECT current_setting('threads') AS threads")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.EqualValues(t, 2, table.Rows[0][0])
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.ErrorIs(t, adp.Exec(ctx, "SELECT 1"), core.ErrNotConnected)
	_, err := adp.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestAdapter_QueryNestedSpectra(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	require.NoError(t, adp.Exec(ctx, `
		CREATE TABLE refs (
			System VARCHAR,
			Date DATE,
			Spectra STRUCT(Wavelengths DOUBLE[], Counts DOUBLE[])[]
		)
	`))
	require.NoError(t, adp.Exec(ctx, `
		INSERT INTO refs VALUES
			('Spectrometer_A', DATE '2024-01-02', [{'Wavelengths': [400.0, 401.0], 'Counts': [10.0, 12.5]}])
	`))

	table, err := adp.Query(ctx, `SELECT System, Date, Spectra FROM refs WHERE System = ?`, "Spectrometer_A")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	rec := table.Record(0)
	assert.Equal(t, "Spectrometer_A", rec["System"])

	date, ok := rec["Date"].(time.Time)
	require.True(t, ok, "DATE should scan as time.Time, got %T", rec["Date"])
	assert.Equal(t, "2024-01-02", date.Format(core.DateLayout))

	spectra, ok := rec["Spectra"].([]any)
	require.True(t, ok, "list column should scan as []any, got %T", rec["Spectra"])
	require.Len(t, spectra, 1)
	first, ok := spectra[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{400.0, 401.0}, first["Wavelengths"])
}

func TestAdapter_Dialect(t *testing.T) {
	adp := New(nil)
	cfg := adp.DialectConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "duckdb", cfg.Name)
	assert.Equal(t, core.PlaceholderQuestion, cfg.Placeholder)
}

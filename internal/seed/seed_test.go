package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/testutil"
	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/adapters/bigquery"
	"github.com/leapstack-labs/refdash/pkg/adapters/duckdb"
	"github.com/leapstack-labs/refdash/pkg/adapters/postgres"
	"github.com/leapstack-labs/refdash/pkg/adapters/sqlite"
	"github.com/leapstack-labs/refdash/pkg/core"
)

type recordingExecer struct {
	stmts []string
	args  [][]any
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) error {
	r.stmts = append(r.stmts, sql)
	r.args = append(r.args, args)
	return nil
}

func TestGenerate(t *testing.T) {
	opts := GenerateOptions{
		Systems:    []string{"Spectrometer_A", "Spectrometer_B"},
		PerChannel: 3,
		Day:        time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC),
		Seed:       42,
	}
	ms := Generate(opts)
	require.Len(t, ms, 2*len(core.Channels)*3)

	ids := make(map[string]bool)
	for _, m := range ms {
		assert.Equal(t, "2024-01-05", m.Date.Format(core.DateLayout))
		require.Len(t, m.Spectra, 1)
		assert.Len(t, m.Spectra[0].Wavelengths, 61)
		assert.Len(t, m.Spectra[0].Counts, 61)
		assert.Equal(t, 400.0, m.Spectra[0].Wavelengths[0])
		assert.Equal(t, 700.0, m.Spectra[0].Wavelengths[60])
		assert.False(t, ids[m.SpectraUUID], "duplicate id %s", m.SpectraUUID)
		ids[m.SpectraUUID] = true
	}

	assert.Equal(t, ms, Generate(opts), "same seed reproduces the data")
}

func TestGenerate_Days(t *testing.T) {
	ms := Generate(GenerateOptions{
		Systems:    []string{"Spectrometer_A"},
		Channels:   []int{1},
		PerChannel: 4,
		Day:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Days:       3,
	})

	var dates []string
	for _, m := range ms {
		dates = append(dates, m.Date.Format(core.DateLayout))
	}
	assert.Equal(t, []string{"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-05"}, dates)
}

func TestFixtureRoundTrip(t *testing.T) {
	ms := Generate(GenerateOptions{Systems: []string{"A"}, Channels: []int{2}, PerChannel: 2, Day: time.Now(), Seed: 1})

	var sb strings.Builder
	require.NoError(t, WriteFixture(&sb, ms))
	got, err := ReadFixture(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, ms, got)
}

func TestReadFixture_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errSubstr string
	}{
		{name: "not an array", input: `{"System":"A"}`, errSubstr: "decode fixture"},
		{name: "unknown field", input: `[{"System":"A","Colour":"red"}]`, errSubstr: "unknown field"},
		{name: "bad date", input: `[{"System":"A","Date":"05/01/2024","Spectra_UUID":"x"}]`, errSubstr: "invalid Date"},
		{name: "missing id", input: `[{"System":"A","Date":"2024-01-05"}]`, errSubstr: "Spectra_UUID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFixture(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestNew_UnsupportedBackend(t *testing.T) {
	_, err := New(&recordingExecer{}, bigquery.Dialect, "refs", nil)
	assert.ErrorIs(t, err, ErrUnsupportedBackend)

	_, err = New(&recordingExecer{}, nil, "refs", nil)
	assert.Error(t, err)
}

func TestSeeder_PostgresStatements(t *testing.T) {
	rec := &recordingExecer{}
	s, err := New(rec, postgres.Dialect, "qc.refs", nil)
	require.NoError(t, err)

	require.NoError(t, s.EnsureTable(context.Background()))
	assert.Contains(t, rec.stmts[0], `CREATE TABLE IF NOT EXISTS "qc"."refs"`)
	assert.Contains(t, rec.stmts[0], `"Spectra" JSONB NOT NULL`)
	assert.Contains(t, rec.stmts[0], `"Spectra_UUID" UUID NOT NULL`)

	m := Generate(GenerateOptions{Systems: []string{"A"}, Channels: []int{1}, PerChannel: 1, Day: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)})
	n, err := s.Insert(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t,
		`INSERT INTO "qc"."refs" ("System", "Channel", "Date", "Operator", "Spectrometer_Integration", "Spectrometer_Averaging", "Spectra_UUID", "Spectra") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.stmts[1])
	args := rec.args[1]
	require.Len(t, args, 8)
	assert.Equal(t, "2024-01-05", args[2])
	assert.True(t, strings.HasPrefix(args[7].(string), `[{"Wavelengths":[400,`))
}

func TestFixtureFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0750))

	files, err := FixtureFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, files)

	files, err = FixtureFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func writeFixture(t *testing.T, dir, name string, ms []core.Measurement) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, WriteFixture(f, ms))
}

func TestSeeder_LoadDir_DuckDB(t *testing.T) {
	ctx := context.Background()
	adp, err := adapter.Open(ctx, core.AdapterConfig{Type: "duckdb", Path: ":memory:"}, nil)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	today := time.Now()
	dir := t.TempDir()
	writeFixture(t, dir, "a.json", Generate(GenerateOptions{Systems: []string{"Spectrometer_A"}, PerChannel: 2, Day: today, Seed: 1}))
	writeFixture(t, dir, "b.json", Generate(GenerateOptions{Systems: []string{"Spectrometer_B"}, PerChannel: 1, Day: today.AddDate(0, 0, -3), Seed: 2}))

	s, err := New(adp, duckdb.Dialect, "refs", testutil.NewTestLogger(t))
	require.NoError(t, err)

	results, err := s.LoadDir(ctx, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, FileResult{Name: "a", Path: filepath.Join(dir, "a.json"), Rows: 4}, results[0])
	assert.Equal(t, 2, results[1].Rows)

	// Reloading replaces rather than appends.
	_, err = s.LoadDir(ctx, dir)
	require.NoError(t, err)

	repo := reference.NewRepository(adp, reference.Config{Table: "refs", Dialect: duckdb.Dialect})

	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.StatusRow{
		{System: "Spectrometer_A", RecordExistsToday: true},
		{System: "Spectrometer_B", RecordExistsToday: false},
	}, status)

	f := core.DefaultFilter(today)
	f.System = "Spectrometer_A"
	got, err := repo.Inspect(ctx, f)
	require.NoError(t, err)
	assert.Len(t, got.Measurements, 2)
	assert.Len(t, got.Samples, 2*61)
}

func TestSeeder_LoadDir_InvalidFixtureLeavesTable(t *testing.T) {
	rec := &recordingExecer{}
	s, err := New(rec, duckdb.Dialect, "refs", nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0600))

	_, err = s.LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Empty(t, rec.stmts, "nothing executed before fixtures parse")
}

func TestMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	adp, err := adapter.Open(ctx, core.AdapterConfig{Type: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	provider, ok := adp.(adapter.DBProvider)
	require.True(t, ok)

	version, err := Migrate(provider.SQLDB(), "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	version, err = Migrate(provider.SQLDB(), "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version, "migrations are idempotent")

	s, err := New(adp, sqlite.Dialect, "", nil)
	require.NoError(t, err)
	ms := Generate(GenerateOptions{Systems: []string{"Spectrometer_A"}, Channels: []int{1}, PerChannel: 1, Day: time.Now().UTC(), Seed: 3})
	_, err = s.Insert(ctx, ms)
	require.NoError(t, err)

	repo := reference.NewRepository(adp, reference.Config{Dialect: sqlite.Dialect})
	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.StatusRow{{System: "Spectrometer_A", RecordExistsToday: true}}, status)
}

func TestMigrate_Unsupported(t *testing.T) {
	assert.True(t, MigrationsSupported("postgres"))
	assert.False(t, MigrationsSupported("duckdb"))

	_, err := Migrate(nil, "sqlite")
	assert.Error(t, err)
}

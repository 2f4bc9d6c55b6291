package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/cli/testutil"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func executeJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := execute(t, append(args, "--output", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

// seededProject creates a project and loads its fixture.
func seededProject(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	var res output.SeedOutput
	executeJSON(t, &res, "seed")
	require.Equal(t, 1, res.Summary.TotalSeeds)
	require.Equal(t, 8, res.Summary.TotalRows)
	return dir
}

func TestRootCommand_Metadata(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "refdash", cmd.Use)
	for _, name := range []string{"serve", "status", "systems", "inspect", "export", "unpivot", "seed", "migrate", "init", "version", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
		assert.NotEmpty(t, sub.Short, "%s should have a short description", name)
	}

	for _, flag := range []string{"config", "target", "seeds-dir", "type", "database", "table", "verbose", "output", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestVersion_SkipsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	// An invalid config file would fail every other command.
	require.NoError(t, os.WriteFile("refdash.yaml", []byte("output: xml\n"), 0o600))

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "refdash v"+Version)
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "status", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSeed_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	out, err := execute(t, "seed")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Seeds Loaded")
	assert.Contains(t, out, "**File:** references")
	assert.Contains(t, out, "**Total Rows:** 8")
}

func TestSeed_Generate(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	var res output.SeedOutput
	executeJSON(t, &res, "seed", "--generate", "1", "--systems", "QC-01")

	require.Len(t, res.Seeds, 2)
	assert.Equal(t, "generated", res.Seeds[0].Name)
	assert.Equal(t, 2, res.Seeds[0].Rows, "one per channel")
	assert.Equal(t, 10, res.Summary.TotalRows)
	assert.FileExists(t, filepath.Join(dir, "seeds", "generated"+seed.FileExt))
}

func TestStatusAndSystems(t *testing.T) {
	seededProject(t)

	var status output.StatusOutput
	executeJSON(t, &status, "status")
	assert.Equal(t, core.TruncateDay(time.Now()).Format(core.DateLayout), status.Date)
	assert.Equal(t, output.StatusSummary{Total: 2, Recorded: 2}, status.Summary)
	require.Len(t, status.Systems, 2)
	assert.Equal(t, "Spectrometer_A", status.Systems[0].System)
	assert.Equal(t, "🟢", status.Systems[0].Indicator)

	var systems output.SystemsOutput
	executeJSON(t, &systems, "systems")
	assert.Equal(t, []string{"Spectrometer_A", "Spectrometer_B"}, systems.Systems)
	assert.Equal(t, "Spectrometer_A", systems.Default)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "| Spectrometer_B | 🟢 |")
}

func TestInspect(t *testing.T) {
	seededProject(t)

	var insp output.InspectOutput
	executeJSON(t, &insp, "inspect", "--channel", "2")

	assert.Equal(t, "Spectrometer_A", insp.Filter.System, "defaults to the first system")
	assert.Equal(t, 2, insp.Filter.Channel)
	assert.Equal(t, output.InspectSummary{Measurements: 2, Samples: 122}, insp.Summary)
	require.Len(t, insp.Measurements, 2)
	require.Len(t, insp.MaxCounts, 2)

	ranks := []int{insp.Measurements[0].Measurement, insp.Measurements[1].Measurement}
	assert.ElementsMatch(t, []int{1, 2}, ranks)
	for _, m := range insp.Measurements {
		assert.Equal(t, 61, m.Points)
		assert.Equal(t, core.MeasurementLabel(core.TruncateDay(time.Now()), m.Measurement), m.Label)
	}
}

func TestInspect_Charts(t *testing.T) {
	dir := seededProject(t)
	svg := filepath.Join(dir, "spectra.svg")
	png := filepath.Join(dir, "max.png")

	out, err := execute(t, "inspect", "--system", "Spectrometer_B", "--spectra-chart", svg, "--max-chart", png)
	require.NoError(t, err)

	assert.Contains(t, out, "# Inspect: Spectrometer_B")
	assert.Contains(t, out, "## Maximum Counts")
	assert.Contains(t, out, "**Summary:** 2 measurements, 122 samples")

	b, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
	b, err = os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestInspect_InvalidInput(t *testing.T) {
	seededProject(t)

	_, err := execute(t, "inspect", "--channel", "3")
	assert.ErrorIs(t, err, core.ErrInvalidChannel)

	_, err = execute(t, "inspect", "--spectra-chart", "chart.gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".svg or .png")
}

func TestExportAndUnpivot(t *testing.T) {
	dir := seededProject(t)
	file := filepath.Join(dir, "out.csv")

	var res output.ExportOutput
	executeJSON(t, &res, "export", "--system", "Spectrometer_B", "--out", file)

	assert.Equal(t, file, res.File)
	assert.Equal(t, 61, res.Wavelengths)
	assert.Equal(t, 1, res.Columns, "both measurements share one day")
	assert.Equal(t, "mean", res.Duplicates)

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), ",Counts\nSystem,Spectrometer_B\n"))

	var long output.UnpivotOutput
	executeJSON(t, &long, "unpivot", file)
	require.Len(t, long.Entries, 61)
	assert.Equal(t, "Spectrometer_B", long.Entries[0].System)
	assert.Equal(t, 400.0, long.Entries[0].Wavelength)
}

func TestExport_Stdout(t *testing.T) {
	seededProject(t)

	out, err := execute(t, "export", "--out", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, ",Counts\n"))
}

func TestExport_RejectDuplicates(t *testing.T) {
	seededProject(t)

	_, err := execute(t, "export", "--duplicates", "reject", "--out", "-")
	assert.ErrorIs(t, err, core.ErrDuplicateSample)
}

func TestMigrate_UnsupportedBackend(t *testing.T) {
	seededProject(t)

	_, err := execute(t, "migrate")
	assert.ErrorIs(t, err, seed.ErrUnsupportedBackend)
}

func TestMigrate_SQLite(t *testing.T) {
	t.Chdir(t.TempDir())

	var res output.MigrateOutput
	executeJSON(t, &res, "migrate", "--type", "sqlite", "--database", "refs.db")
	assert.Equal(t, output.MigrateOutput{Dialect: "sqlite", Version: 2}, res)

	// The migrated table accepts seeds.
	executeJSON(t, &output.SeedOutput{}, "seed", "--type", "sqlite", "--database", "refs.db", "--generate", "1")
	var status output.StatusOutput
	executeJSON(t, &status, "status", "--type", "sqlite", "--database", "refs.db")
	assert.Equal(t, 2, status.Summary.Total)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init", "demo", "--example")
	require.NoError(t, err)
	assert.Contains(t, out, "refdash.yaml")

	project := filepath.Join(dir, "demo")
	assert.FileExists(t, filepath.Join(project, "refdash.yaml"))
	assert.FileExists(t, filepath.Join(project, "seeds", "example.json"))

	_, err = execute(t, "init", "demo")
	require.Error(t, err, "existing config is kept without --force")
	_, err = execute(t, "init", "demo", "--force")
	require.NoError(t, err)

	// The starter project works as written.
	t.Chdir(project)
	var res output.SeedOutput
	executeJSON(t, &res, "seed")
	assert.Equal(t, 12, res.Summary.TotalRows)
}

func TestInit_UnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "init", "--backend", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestGetRenderer_Default(t *testing.T) {
	assert.NotNil(t, GetRenderer(context.Background()))
	assert.Nil(t, GetConfig(context.Background()))
}

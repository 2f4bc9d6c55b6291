package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/refdash/pkg/adapters/bigquery"
	_ "github.com/leapstack-labs/refdash/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/refdash/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/refdash/pkg/adapters/sqlite"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, DefaultTable, cfg.Target.Table)
	assert.Equal(t, "main", cfg.Target.Schema)
	assert.Equal(t, filepath.Join(dir, DefaultDatabase), cfg.Target.Database)
	assert.Equal(t, filepath.Join(dir, DefaultSeedsDir), cfg.SeedsDir)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"status"}, cfg.Cache.Queries)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.Equal(t, time.Minute, cfg.UI.StatusRefresh)
	assert.Equal(t, 30*time.Second, cfg.UI.QueryTimeout)
	assert.Equal(t, "mean", cfg.Export.Duplicates)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("REFDASH_TEST_SA", `{"type":"service_account"}`)

	writeConfig(t, dir, `
target:
  type: bigquery
  project: qc-database-365211
  dataset: System_References
  table: abc
  credentials_json: ${REFDASH_TEST_SA}
cache:
  ttl: 5m
  queries: [status, systems]
ui:
  port: 9000
export:
  duplicates: reject
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), GetConfigFileUsed())
	assert.Equal(t, "bigquery", cfg.Target.Type)
	assert.Equal(t, "qc-database-365211.System_References.abc", cfg.Target.TableRef())
	assert.Equal(t, `{"type":"service_account"}`, cfg.Target.CredentialsJSON)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"status", "systems"}, cfg.Cache.Queries)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.Equal(t, "reject", cfg.Export.Duplicates)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "seeds_dir: fixtures\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "fixtures"), cfg.SeedsDir)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
target:
  table: from_file
ui:
  port: 9000
`)
	t.Setenv("REFDASH_TARGET__TABLE", "from_env")
	t.Setenv("REFDASH_UI__PORT", "9100")
	t.Setenv("REFDASH_CACHE__TTL", "30s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("output", "", "")
	flags.String("target", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "9200", "--output", "json", "--target", "prod"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Target.Table, "env overrides file")
	assert.Equal(t, 9200, cfg.UI.Port, "flag overrides env")
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "from_env", cfg.Target.Table, "--target selects an environment, it is not a value")
}

func TestLoadConfig_TargetEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
target:
  type: duckdb
  table: refs
environments:
  prod:
    target:
      type: postgres
      host: db.internal
      database: refs
      password: ${REFDASH_TEST_PW}
`)
	t.Setenv("REFDASH_TEST_PW", "s3cret")

	cfg, err := LoadConfigWithTarget("", "prod", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, "public.refs", cfg.Target.TableRef())

	_, err = LoadConfigWithTarget("", "staging", nil)
	assert.ErrorContains(t, err, "unknown target environment")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "unknown adapter", content: "target:\n  type: mysql\n", errSubstr: "unknown adapter type"},
		{name: "bigquery without project", content: "target:\n  type: bigquery\n", errSubstr: "project is required"},
		{name: "bad duplicates", content: "export:\n  duplicates: sum\n", errSubstr: "duplicates policy"},
		{name: "bad cache query", content: "cache:\n  queries: [charts]\n", errSubstr: "unknown cache query"},
		{name: "bad output", content: "output: html\n", errSubstr: "unknown output format"},
		{name: "bad log level", content: "log_level: loud\n", errSubstr: "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := LoadConfig("does-not-exist.yaml", nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestTableRef(t *testing.T) {
	tests := []struct {
		target TargetConfig
		want   string
	}{
		{TargetConfig{Type: "duckdb", Table: "refs", Schema: "main"}, "refs"},
		{TargetConfig{Type: "postgres", Table: "refs", Schema: "qc"}, "qc.refs"},
		{TargetConfig{Type: "bigquery", Table: "abc", Dataset: "ds"}, "ds.abc"},
		{TargetConfig{Type: "bigquery", Table: "p.ds.abc", Dataset: "other"}, "p.ds.abc"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.TableRef())
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{
		Type:    "duckdb",
		Table:   "refs",
		Options: map[string]string{"a": "1"},
	}
	override := &TargetConfig{
		Type:    "postgres",
		Port:    6543,
		Options: map[string]string{"b": "2"},
	}

	merged := MergeTargetConfig(base, override)
	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "refs", merged.Table)
	assert.Equal(t, 6543, merged.Port)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, merged.Options)
	assert.Equal(t, map[string]string{"a": "1"}, base.Options, "base is not mutated")

	assert.Same(t, override, MergeTargetConfig(nil, override))
	assert.Same(t, base, MergeTargetConfig(base, nil))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REFDASH_TEST_HOST", "db.example.com")

	assert.Equal(t, "db.example.com", expandEnvVars("${REFDASH_TEST_HOST}"))
	assert.Equal(t, "host=db.example.com:5432", expandEnvVars("host=${REFDASH_TEST_HOST}:5432"))
	assert.Equal(t, "${REFDASH_TEST_UNSET}", expandEnvVars("${REFDASH_TEST_UNSET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}

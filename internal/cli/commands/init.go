package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/refdash/internal/cli/config"
	"github.com/leapstack-labs/refdash/internal/seed"
)

// initFile is the layout of the starter refdash.yaml.
type initFile struct {
	SeedsDir     string             `yaml:"seeds_dir"`
	Target       initTarget         `yaml:"target"`
	Cache        initCache          `yaml:"cache"`
	UI           initUI             `yaml:"ui"`
	Export       initExport         `yaml:"export"`
	Environments map[string]initEnv `yaml:"environments,omitempty"`
}

type initTarget struct {
	Type            string `yaml:"type"`
	Database        string `yaml:"database,omitempty"`
	Host            string `yaml:"host,omitempty"`
	Port            int    `yaml:"port,omitempty"`
	User            string `yaml:"user,omitempty"`
	Password        string `yaml:"password,omitempty"`
	Schema          string `yaml:"schema,omitempty"`
	Project         string `yaml:"project,omitempty"`
	Dataset         string `yaml:"dataset,omitempty"`
	Table           string `yaml:"table"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

type initCache struct {
	TTL     string   `yaml:"ttl"`
	Queries []string `yaml:"queries"`
}

type initUI struct {
	Port          int    `yaml:"port"`
	StatusRefresh string `yaml:"status_refresh"`
}

type initExport struct {
	Duplicates string `yaml:"duplicates"`
}

type initEnv struct {
	Target initTarget `yaml:"target"`
}

// initBackends are the targets init can write.
var initBackends = []string{"duckdb", "sqlite", "postgres", "bigquery"}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force, example bool
	var backend string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new refdash project",
		Long: `Initialize a new refdash project with a refdash.yaml configuration file
and a seeds/ directory for JSON fixtures.

Use --example to also write a generated fixture, so that seed and serve work
right away.`,
		Example: `  # Initialize in current directory
  refdash init

  # Initialize with example data
  refdash init --example

  # Initialize a project reading from Postgres
  refdash init my-project --backend postgres`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if !slices.Contains(initBackends, backend) {
				return fmt.Errorf("unknown backend %q (valid: duckdb, sqlite, postgres, bigquery)", backend)
			}

			cc, err := NewCommandContextWithoutDB(cmd)
			if err != nil {
				return err
			}
			r := cc.Renderer

			path, err := writeInitConfig(dir, backend, force)
			if err != nil {
				return err
			}
			r.Success("Created " + path)

			seedsDir := filepath.Join(dir, config.DefaultSeedsDir)
			if err := os.MkdirAll(seedsDir, 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", seedsDir, err)
			}
			r.Success("Created " + seedsDir + string(filepath.Separator))

			if example {
				fixture := filepath.Join(seedsDir, "example"+seed.FileExt)
				if err := writeExampleFixture(fixture, cc); err != nil {
					return err
				}
				r.Success("Created " + fixture)
			}

			r.Println("")
			r.Muted("Next: refdash seed && refdash serve")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Write an example fixture to the seeds directory")
	cmd.Flags().StringVar(&backend, "backend", "duckdb", "Target database (duckdb|sqlite|postgres|bigquery)")

	_ = cmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return initBackends, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// starterConfig returns the configuration init writes for backend.
func starterConfig(backend string) initFile {
	f := initFile{
		SeedsDir: config.DefaultSeedsDir,
		Target:   starterTarget(backend),
		Cache: initCache{
			TTL:     config.DefaultCacheTTL.String(),
			Queries: []string{"status"},
		},
		UI: initUI{
			Port:          config.DefaultPort,
			StatusRefresh: config.DefaultStatusRefresh.String(),
		},
		Export: initExport{Duplicates: config.DefaultDuplicates},
	}
	if backend != "bigquery" {
		f.Environments = map[string]initEnv{"prod": {Target: starterTarget("bigquery")}}
	}
	return f
}

func starterTarget(backend string) initTarget {
	t := initTarget{Type: backend, Table: config.DefaultTable}
	switch backend {
	case "duckdb":
		t.Database = config.DefaultDatabase
	case "sqlite":
		t.Database = "refdash.db"
	case "postgres":
		t.Host = "localhost"
		t.Port = 5432
		t.Database = "refdash"
		t.User = "refdash"
		t.Password = "${REFDASH_DB_PASSWORD}"
		t.Schema = "public"
	case "bigquery":
		t.Project = "my-gcp-project"
		t.Dataset = "System_References"
		t.Table = "references"
		t.CredentialsFile = "${GOOGLE_APPLICATION_CREDENTIALS}"
	}
	return t
}

func writeInitConfig(dir, backend string, force bool) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(starterConfig(backend)); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func writeExampleFixture(path string, cc *CommandContext) error {
	ms := seed.Generate(seed.GenerateOptions{
		Systems:    []string{"Spectrometer_A", "Spectrometer_B"},
		PerChannel: 3,
		Day:        cc.Now(),
		Days:       7,
		Seed:       1,
	})
	f, err := os.Create(path) //nolint:gosec // inside the new project
	if err != nil {
		return err
	}
	if err := seed.WriteFixture(f, ms); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

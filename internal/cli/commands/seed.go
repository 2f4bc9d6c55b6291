package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/seed"
)

// GeneratedFixture is the file seed --generate writes into the seeds directory.
const GeneratedFixture = "generated" + seed.FileExt

// SeedOptions holds options for the seed command.
type SeedOptions struct {
	Generate int
	Days     int
	Systems  []string
	Seed     int64
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference measurements from JSON fixtures",
		Long: `Replace the contents of the target table with the measurements in the
JSON fixtures of the seeds directory. The table is created when missing.

With --generate, a synthetic fixture is written to the seeds directory first.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)
  
Use --output to override: auto, text, markdown, json`,
		Example: `  # Load all fixtures
  refdash seed

  # Generate three measurements per system and channel over the last week, then load
  refdash seed --generate 3 --days 7 --systems Spectrometer_A,Spectrometer_B

  # Load fixtures from a specific directory
  refdash seed --seeds-dir ./data/seeds`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Generate, "generate", 0, "Generate this many measurements per system and channel before loading")
	cmd.Flags().IntVar(&opts.Days, "days", 1, "Spread generated measurements over this many days ending today")
	cmd.Flags().StringSliceVar(&opts.Systems, "systems", []string{"Spectrometer_A", "Spectrometer_B"}, "Systems to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "Random seed for generated data")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	seeder, err := cc.Seeder()
	if err != nil {
		return err
	}
	seedsDir := cc.Cfg.SeedsDir

	if opts.Generate > 0 {
		path, err := writeGenerated(seedsDir, opts, cc)
		if err != nil {
			return err
		}
		cc.Logger.Debug("generated fixture", "path", path)
	}

	results, err := seeder.LoadDir(commandContext(cmd), seedsDir)
	if err != nil {
		return err
	}

	out := output.SeedOutput{
		Table: cc.Cfg.Target.TableRef(),
		Seeds: make([]output.SeedInfo, 0, len(results)),
	}
	for _, res := range results {
		absPath, _ := filepath.Abs(res.Path)
		out.Seeds = append(out.Seeds, output.SeedInfo{Name: res.Name, FilePath: absPath, Rows: res.Rows})
		out.Summary.TotalRows += res.Rows
	}
	out.Summary.TotalSeeds = len(results)

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Seeds Loaded"))
		r.Println("")
		if len(results) == 0 {
			r.Println("No seed files found in " + seedsDir)
			return nil
		}
		for _, s := range out.Seeds {
			r.Println(output.FormatKeyValue("File", s.Name))
			r.Println(output.FormatKeyValue("Rows", fmt.Sprint(s.Rows)))
			r.Println("")
		}
		r.Println(output.FormatKeyValue("Table", out.Table))
		r.Printf("**Total Rows:** %d\n", out.Summary.TotalRows)
	default:
		r.Header(1, "Seeds")
		if len(results) == 0 {
			r.Muted("No seed files found in " + seedsDir)
			return nil
		}
		for _, s := range out.Seeds {
			r.StatusLine(s.Name, "success", fmt.Sprintf("%d rows", s.Rows))
		}
		r.Println("")
		r.Muted("Table: " + out.Table)
	}
	return nil
}

func writeGenerated(dir string, opts *SeedOptions, cc *CommandContext) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create seeds directory: %w", err)
	}
	ms := seed.Generate(seed.GenerateOptions{
		Systems:    opts.Systems,
		PerChannel: opts.Generate,
		Day:        cc.Now(),
		Days:       opts.Days,
		Seed:       opts.Seed,
	})

	path := filepath.Join(dir, GeneratedFixture)
	f, err := os.Create(path) //nolint:gosec // inside the configured seeds dir
	if err != nil {
		return "", err
	}
	if err := seed.WriteFixture(f, ms); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

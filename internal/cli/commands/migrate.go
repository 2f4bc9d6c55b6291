package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/pkg/adapter"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the system_references schema",
		Long: `Apply the embedded schema migrations to the target database.

Migrations exist for postgres and sqlite. DuckDB tables are created by seed;
BigQuery tables are managed outside refdash.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			name := cc.Dialect.Name
			if !seed.MigrationsSupported(name) {
				return fmt.Errorf("%w: no migrations for %s", seed.ErrUnsupportedBackend, name)
			}
			provider, ok := cc.Adapter.(adapter.DBProvider)
			if !ok {
				return fmt.Errorf("%s adapter does not expose a database/sql connection", name)
			}

			version, err := seed.Migrate(provider.SQLDB(), name)
			if err != nil {
				return err
			}

			out := output.MigrateOutput{Dialect: name, Version: version}
			r := cc.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(out)
			case output.ModeMarkdown:
				r.Println(output.FormatHeader(1, "Migrate"))
				r.Println("")
				r.Println(output.FormatKeyValue("Dialect", out.Dialect))
				r.Println(output.FormatKeyValue("Version", fmt.Sprint(out.Version)))
			default:
				r.Success(fmt.Sprintf("%s schema at version %d", out.Dialect, out.Version))
			}
			return nil
		},
	}
}

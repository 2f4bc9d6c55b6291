package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/config"
	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/leapstack-labs/refdash/pkg/dialect"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Renderer   *output.Renderer
	Adapter    core.Adapter
	Dialect    *dialect.Dialect
	Repository *reference.Repository
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// NewCommandContext connects to the configured target and builds the repository.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc, err := NewCommandContextWithoutDB(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx := commandContext(cmd)
	adp, err := adapter.Open(ctx, cc.Cfg.Target.AdapterConfig(), cc.Logger)
	if err != nil {
		return nil, nil, err
	}

	d, err := dialectOf(adp)
	if err != nil {
		_ = adp.Close()
		return nil, nil, err
	}

	cc.Registry = prometheus.NewRegistry()
	cc.Metrics, err = metrics.New(cc.Registry)
	if err != nil {
		_ = adp.Close()
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	cc.Adapter = adp
	cc.Dialect = d
	cc.Repository = reference.NewRepository(adp, reference.Config{
		Table:         cc.Cfg.Target.TableRef(),
		Dialect:       d,
		CacheTTL:      cc.Cfg.Cache.TTL,
		CachedQueries: cc.Cfg.CachedQueries(),
		Metrics:       cc.Metrics,
		Logger:        cc.Logger,
	})

	cleanup := func() {
		_ = adp.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutDB creates a CommandContext without a database connection.
// Useful for commands that only work on files.
func NewCommandContextWithoutDB(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	ctx := commandContext(cmd)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
		Now:      time.Now,
	}, nil
}

// Seeder returns a seeder for the target table.
func (cc *CommandContext) Seeder() (*seed.Seeder, error) {
	return seed.New(cc.Adapter, cc.Dialect, cc.Cfg.Target.TableRef(), cc.Logger)
}

// Exporter returns the CSV exporter with the configured duplicate policy.
func (cc *CommandContext) Exporter() *export.Exporter {
	return &export.Exporter{
		Policy:  export.DuplicatePolicy(cc.Cfg.Export.Duplicates),
		Metrics: cc.Metrics,
	}
}

// Helper functions shared across commands

// getConfig returns the configuration stored by the root command, loading it
// from the working directory when the command runs standalone.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.FromContext(commandContext(cmd)); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// dialectOf resolves the SQL dialect registered for the adapter.
func dialectOf(adp core.Adapter) (*dialect.Dialect, error) {
	dc := adp.DialectConfig()
	if dc == nil {
		return nil, dialect.ErrDialectRequired
	}
	d, ok := dialect.Get(dc.Name)
	if !ok {
		return nil, fmt.Errorf("no dialect registered for %q", dc.Name)
	}
	return d, nil
}

// addFilterFlags registers the selection flags shared by inspect and export.
func addFilterFlags(cmd *cobra.Command, in *reference.FilterInput) {
	cmd.Flags().StringVar(&in.System, "system", "", "System to inspect (default: first system)")
	cmd.Flags().StringVar(&in.Channel, "channel", "", "Spectrometer channel, 1 or 2 (default: 1)")
	cmd.Flags().StringVar(&in.From, "from", "", "First date, YYYY-MM-DD (default: 7 days ago)")
	cmd.Flags().StringVar(&in.To, "to", "", "Last date, YYYY-MM-DD (default: today)")

	_ = cmd.RegisterFlagCompletionFunc("channel", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"1", "2"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFilter turns the flags into a filter, defaulting the system to the first one available.
func (cc *CommandContext) resolveFilter(ctx context.Context, in reference.FilterInput) (core.Filter, error) {
	if in.System == "" {
		systems, err := cc.Repository.Systems(ctx)
		if err != nil {
			return core.Filter{}, err
		}
		in.System = reference.DefaultSystem("", systems)
	}
	return in.Resolve(cc.Now())
}

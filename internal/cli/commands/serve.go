package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
	Seed      bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the reference spectra dashboard",
		Long: `Start a local web server with the System References dashboard.

The dashboard provides:
- Today's status board per system, refreshed live
- System, channel, and date range selection
- Counts by wavelength and maximum counts over time
- The measurement metadata table
- The pivoted CSV download

With --watch, edits to the JSON fixtures in the seeds directory reload the
table and every open page.`,
		Example: `  # Start on the default port
  refdash serve

  # Load the fixtures, watch them, and serve on port 3000
  refdash serve --seed --watch --port 3000

  # Start without auto-opening the browser
  refdash serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("watch", false, "Reload when seed fixtures change")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Load the seed fixtures before serving")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	// Backends without a seeder are served read-only.
	seeder, err := cc.Seeder()
	if err != nil {
		cc.Logger.Debug("seeding disabled", "error", err)
		seeder = nil
	}

	if opts.Seed {
		if seeder == nil {
			return fmt.Errorf("%w: cannot seed %s", seed.ErrUnsupportedBackend, cc.Cfg.Target.Type)
		}
		if _, err := seeder.LoadDir(ctx, cc.Cfg.SeedsDir); err != nil {
			return err
		}
	}

	uiCfg := cc.Cfg.UI
	server := ui.NewServer(ui.Config{
		Repository:    cc.Repository,
		Exporter:      cc.Exporter(),
		Charts:        charts.Renderer{Width: uiCfg.ChartWidth, Height: uiCfg.ChartHeight},
		Metrics:       cc.Metrics,
		Seeder:        seeder,
		SeedsDir:      cc.Cfg.SeedsDir,
		Port:          uiCfg.Port,
		Watch:         uiCfg.Watch,
		SessionSecret: uiCfg.SessionSecret,
		StatusRefresh: uiCfg.StatusRefresh,
		QueryTimeout:  uiCfg.QueryTimeout,
		Logger:        cc.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	cc.Renderer.Println("Starting dashboard on " + url)
	cc.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}

package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// ExportOptions holds options for the export command.
type ExportOptions struct {
	Filter reference.FilterInput
	Out    string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected spectra as a pivoted CSV",
		Long: `Write the spectra of one selection as the dashboard's CSV download:
one row per wavelength and one Counts column per (System, Date, Channel).

Duplicate cells are averaged by default; set --duplicates reject to fail instead.`,
		Example: `  # Export the default selection to reference_spectra.csv
  refdash export

  # Export to stdout
  refdash export --system Spectrometer_A --out -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	addFilterFlags(cmd, &opts.Filter)
	cmd.Flags().StringVar(&opts.Out, "out", export.FileName, "Output file, or - for stdout")
	cmd.Flags().String("duplicates", "", "Duplicate cell policy (mean|reject)")

	_ = cmd.RegisterFlagCompletionFunc("duplicates", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(export.DuplicatesMean), string(export.DuplicatesReject)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := commandContext(cmd)
	f, err := cc.resolveFilter(ctx, opts.Filter)
	if err != nil {
		return err
	}
	insp, err := cc.Repository.Inspect(ctx, f)
	if err != nil {
		return err
	}

	exporter := cc.Exporter()
	body, err := exporter.Export(insp.Samples)
	if err != nil {
		return err
	}

	if opts.Out == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(opts.Out, body, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}

	p, err := export.Build(insp.Samples, exporter.Policy)
	if err != nil {
		return err
	}
	out := output.ExportOutput{
		File:        opts.Out,
		Bytes:       len(body),
		Wavelengths: len(p.Wavelengths),
		Columns:     len(p.Columns),
		Duplicates:  cc.Cfg.Export.Duplicates,
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Export"))
		r.Println("")
		r.Println(output.FormatKeyValue("File", out.File))
		r.Println(output.FormatKeyValue("Wavelengths", strconv.Itoa(out.Wavelengths)))
		r.Println(output.FormatKeyValue("Columns", strconv.Itoa(out.Columns)))
	default:
		r.Success(fmt.Sprintf("Wrote %s (%d wavelengths, %d columns)", out.File, out.Wavelengths, out.Columns))
	}
	return nil
}

// NewUnpivotCommand creates the unpivot command.
func NewUnpivotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unpivot <file>",
		Short: "Read an exported CSV back into long form",
		Long: `Read a file written by export (or downloaded from the dashboard) and list
its non-empty cells as (System, Date, Channel, Wavelength, Counts) rows.`,
		Example: `  refdash unpivot reference_spectra.csv --output json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContextWithoutDB(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			entries, err := export.Unpivot(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := output.UnpivotOutput{Entries: make([]output.UnpivotEntry, 0, len(entries))}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				ue := output.UnpivotEntry{
					System:     e.Column.System,
					Date:       e.Column.Date.Format(core.DateLayout),
					Channel:    e.Column.Channel,
					Wavelength: e.Wavelength,
					Counts:     e.Counts,
				}
				out.Entries = append(out.Entries, ue)
				rows = append(rows, []string{
					ue.System, ue.Date, strconv.Itoa(ue.Channel),
					strconv.FormatFloat(ue.Wavelength, 'g', -1, 64),
					strconv.FormatFloat(ue.Counts, 'g', -1, 64),
				})
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(out)
			}
			r.Table([]string{"System", "Date", "Channel", "Wavelength", "Counts"}, rows)
			return nil
		},
	}
}

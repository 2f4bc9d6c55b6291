package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Filter       reference.FilterInput
	SpectraChart string
	MaxChart     string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the reference spectra of one system",
		Long: `Query the reference measurements of one system and channel in a date range,
rank them by Spectra_UUID, and print their metadata and maximum counts.

The charts the dashboard shows can be written to files; the extension
(.svg or .png) selects the format.`,
		Example: `  # Last seven days of channel 1 for the first system
  refdash inspect

  # A specific selection with both charts
  refdash inspect --system Spectrometer_A --channel 2 --from 2024-01-01 --to 2024-01-31 \
    --spectra-chart spectra.svg --max-chart max.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	addFilterFlags(cmd, &opts.Filter)
	cmd.Flags().StringVar(&opts.SpectraChart, "spectra-chart", "", "Write the counts-by-wavelength chart to this file")
	cmd.Flags().StringVar(&opts.MaxChart, "max-chart", "", "Write the maximum-counts chart to this file")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions) error {
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
	maxes := reference.MaxCounts(insp.Samples)

	renderer := charts.Renderer{Width: cc.Cfg.UI.ChartWidth, Height: cc.Cfg.UI.ChartHeight}
	var written []string
	if opts.SpectraChart != "" {
		if err := writeChart(opts.SpectraChart, func(w *os.File, format charts.Format) error {
			return renderer.Spectra(w, format, insp.Samples)
		}); err != nil {
			return err
		}
		written = append(written, opts.SpectraChart)
	}
	if opts.MaxChart != "" {
		if err := writeChart(opts.MaxChart, func(w *os.File, format charts.Format) error {
			return renderer.MaxCounts(w, format, maxes)
		}); err != nil {
			return err
		}
		written = append(written, opts.MaxChart)
	}

	out := inspectOutput(insp, maxes)
	r := cc.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Inspect: "+f.System))
		r.Println("")
		printFilter(r, out.Filter)
		r.Println("")
		r.Println(output.FormatHeader(2, "Measurements"))
		r.Table(charts.MetadataHeader, charts.MetadataRows(insp.Measurements))
		r.Println(output.FormatHeader(2, "Maximum Counts"))
		r.Table(maxCountHeader, maxCountRows(maxes))
		r.Printf("**Summary:** %s\n", charts.Summary(out.Summary.Measurements, out.Summary.Samples))
	default:
		r.Header(1, "Inspect: "+f.System)
		printFilter(r, out.Filter)
		r.Println("")
		r.Header(2, "Measurements")
		r.Table(charts.MetadataHeader, charts.MetadataRows(insp.Measurements))
		r.Header(2, "Maximum Counts")
		r.Table(maxCountHeader, maxCountRows(maxes))
		r.Muted(charts.Summary(out.Summary.Measurements, out.Summary.Samples))
	}

	for _, path := range written {
		r.Success("Wrote " + path)
	}
	return nil
}

var maxCountHeader = []string{"Date_Measurement", "Spectra_UUID", "Counts"}

func maxCountRows(maxes []reference.MaxCount) [][]string {
	rows := make([][]string, 0, len(maxes))
	for _, m := range maxes {
		rows = append(rows, []string{
			core.MeasurementLabel(m.Date, m.Measurement),
			m.SpectraUUID,
			strconv.FormatFloat(m.Counts, 'g', -1, 64),
		})
	}
	return rows
}

func printFilter(r *output.Renderer, f output.FilterInfo) {
	r.KeyValue("Channel", strconv.Itoa(f.Channel))
	r.KeyValue("From", f.From)
	r.KeyValue("To", f.To)
}

func inspectOutput(insp *reference.Inspection, maxes []reference.MaxCount) output.InspectOutput {
	ranks := reference.DenseRank(insp.Measurements)

	out := output.InspectOutput{
		Filter: output.FilterInfo{
			System:  insp.Filter.System,
			Channel: insp.Filter.Channel,
			From:    insp.Filter.From.Format(core.DateLayout),
			To:      insp.Filter.To.Format(core.DateLayout),
		},
		Measurements: make([]output.MeasurementInfo, 0, len(insp.Measurements)),
		MaxCounts:    make([]output.MaxCountInfo, 0, len(maxes)),
		Summary: output.InspectSummary{
			Measurements: len(insp.Measurements),
			Samples:      len(insp.Samples),
		},
	}

	for _, m := range insp.Measurements {
		rank := ranks[m.SpectraUUID]
		points := 0
		if len(m.Spectra) > 0 {
			points = len(m.Spectra[0].Wavelengths)
		}
		out.Measurements = append(out.Measurements, output.MeasurementInfo{
			SpectraUUID: m.SpectraUUID,
			System:      m.System,
			Channel:     m.Channel,
			Date:        m.Date.Format(core.DateLayout),
			Operator:    m.Operator,
			Integration: m.SpectrometerIntegration,
			Averaging:   m.SpectrometerAveraging,
			Measurement: rank,
			Label:       core.MeasurementLabel(m.Date, rank),
			Points:      points,
		})
	}

	for _, m := range maxes {
		out.MaxCounts = append(out.MaxCounts, output.MaxCountInfo{
			Date:        m.Date.Format(core.DateLayout),
			SpectraUUID: m.SpectraUUID,
			Measurement: m.Measurement,
			Counts:      m.Counts,
		})
	}
	return out
}

// chartFormat picks the image format from a file extension.
func chartFormat(path string) (charts.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return charts.SVG, nil
	case ".png":
		return charts.PNG, nil
	default:
		return "", fmt.Errorf("chart file %s: extension must be .svg or .png", path)
	}
}

func writeChart(path string, draw func(*os.File, charts.Format) error) error {
	format, err := chartFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is a user flag
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := draw(f, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to draw chart: %w", err)
	}
	return f.Close()
}

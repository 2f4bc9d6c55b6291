// Package charts renders the dashboard's line charts with go-chart.
package charts

import (
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case SVG, "":
		return chart.SVG, nil
	case PNG:
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("unsupported chart format %q", f)
	}
}

// Default chart size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 420
)

// Renderer draws charts at a fixed size.
type Renderer struct {
	Width  int
	Height int
}

func (r Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Spectra draws Counts against Wavelength with one line per Date_Measurement label.
// Points are connected in sample order.
func (r Renderer) Spectra(w io.Writer, f Format, samples []core.Sample) error {
	if len(samples) == 0 {
		return r.placeholder(w, f, "Counts by wavelength")
	}

	order := reference.Labels(samples)
	byLabel := make(map[string]*chart.ContinuousSeries, len(order))
	for _, label := range order {
		byLabel[label] = &chart.ContinuousSeries{Name: label}
	}

	xr, yr := newBounds(), newBounds()
	for _, s := range samples {
		series := byLabel[s.DateMeasurement]
		series.XValues = append(series.XValues, s.Wavelength)
		series.YValues = append(series.YValues, s.Counts)
		xr.add(s.Wavelength)
		yr.add(s.Counts)
	}

	series := make([]chart.Series, 0, len(order))
	for _, label := range order {
		series = append(series, padSeries(*byLabel[label]))
	}

	ch := r.base("Counts by wavelength")
	ch.XAxis = chart.XAxis{Name: "Wavelengths", Range: xr.rangeOf()}
	ch.YAxis = chart.YAxis{Name: "Counts", Range: yr.rangeOf()}
	ch.Series = series
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(&ch, w, f)
}

// MaxCounts draws the maximum count of each measurement against its date.
func (r Renderer) MaxCounts(w io.Writer, f Format, maxes []reference.MaxCount) error {
	if len(maxes) == 0 {
		return r.placeholder(w, f, "Maximum counts over time")
	}

	ts := chart.TimeSeries{Name: "Max counts"}
	xr, yr := newBounds(), newBounds()
	for _, m := range maxes {
		ts.XValues = append(ts.XValues, m.Date)
		ts.YValues = append(ts.YValues, m.Counts)
		xr.add(chart.TimeToFloat64(m.Date))
		yr.add(m.Counts)
	}
	if len(ts.XValues) == 1 {
		ts.XValues = append(ts.XValues, ts.XValues[0])
		ts.YValues = append(ts.YValues, ts.YValues[0])
	}
	ts.Style = chart.Style{StrokeWidth: 2, DotWidth: 3}

	ch := r.base("Maximum counts over time")
	ch.XAxis = chart.XAxis{
		Name:           "Date",
		Range:          xr.rangeOfWithPad(float64(24 * time.Hour)),
		ValueFormatter: dateFormatter,
	}
	ch.YAxis = chart.YAxis{Name: "Counts", Range: yr.rangeOf()}
	ch.Series = []chart.Series{ts}
	return render(&ch, w, f)
}

func (r Renderer) base(title string) chart.Chart {
	w, h := r.size()
	return chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
	}
}

// placeholder renders empty axes so the page layout stays stable without data.
func (r Renderer) placeholder(w io.Writer, f Format, title string) error {
	ch := r.base(title + " (no data)")
	ch.XAxis = chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}}
	ch.YAxis = chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}}
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Style:   chart.Style{StrokeColor: drawing.Color{}, StrokeWidth: 1},
		XValues: []float64{0, 1},
		YValues: []float64{0, 0},
	}}
	return render(&ch, w, f)
}

func render(ch *chart.Chart, w io.Writer, f Format) error {
	provider, err := f.provider()
	if err != nil {
		return err
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", f, err)
	}
	return nil
}

// dateFormatter labels time axis ticks, which go-chart passes as Unix nanoseconds.
func dateFormatter(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(core.DateLayout)
	case float64:
		return time.Unix(0, int64(t)).UTC().Format(core.DateLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// padSeries duplicates a lone point so the series has a drawable segment.
func padSeries(s chart.ContinuousSeries) chart.ContinuousSeries {
	if len(s.XValues) == 1 {
		s.XValues = append(s.XValues, s.XValues[0])
		s.YValues = append(s.YValues, s.YValues[0])
	}
	return s
}

type bounds struct {
	min, max float64
}

func newBounds() *bounds {
	return &bounds{min: math.Inf(1), max: math.Inf(-1)}
}

func (b *bounds) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	b.min = math.Min(b.min, v)
	b.max = math.Max(b.max, v)
}

// rangeOf pads a single-valued range so the axis has non-zero width.
func (b *bounds) rangeOf() *chart.ContinuousRange {
	pad := math.Abs(b.max) * 0.05
	if pad == 0 {
		pad = 1
	}
	return b.rangeOfWithPad(pad)
}

func (b *bounds) rangeOfWithPad(pad float64) *chart.ContinuousRange {
	if math.IsInf(b.min, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if b.min == b.max {
		return &chart.ContinuousRange{Min: b.min - pad, Max: b.max + pad}
	}
	return &chart.ContinuousRange{Min: b.min, Max: b.max}
}

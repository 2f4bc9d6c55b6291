// Package export writes shaped samples as a wide CSV: one row per wavelength,
// one column per (System, Date, Channel), cells holding Counts.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

const (
	// FileName is the suggested download name.
	FileName = "reference_spectra.csv"
	// ContentType is the MIME type of the export.
	ContentType = "text/csv"

	valueLabel = "Counts"
	indexLabel = "Wavelengths"
)

// DuplicatePolicy decides what happens when several samples land in one cell.
type DuplicatePolicy string

const (
	// DuplicatesMean averages the values, like a pandas pivot_table.
	DuplicatesMean DuplicatePolicy = "mean"
	// DuplicatesReject fails with core.ErrDuplicateSample.
	DuplicatesReject DuplicatePolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicatesMean || p == DuplicatesReject
}

// ColumnKey identifies one value column.
type ColumnKey struct {
	System  string
	Date    time.Time
	Channel int
}

func (k ColumnKey) less(o ColumnKey) bool {
	if k.System != o.System {
		return k.System < o.System
	}
	if !k.Date.Equal(o.Date) {
		return k.Date.Before(o.Date)
	}
	return k.Channel < o.Channel
}

// Cell is one pivot value; Valid is false for absent combinations.
type Cell struct {
	Value float64
	Valid bool
}

// Pivot is the wide table. Cells[i][j] belongs to Wavelengths[i] and Columns[j].
type Pivot struct {
	Wavelengths []float64
	Columns     []ColumnKey
	Cells       [][]Cell
}

type cellKey struct {
	wavelength float64
	col        ColumnKey
}

type accumulator struct {
	sum float64
	n   int
}

// Build pivots samples. Rows are ordered by wavelength and columns by
// (System, Date, Channel), both ascending.
func Build(samples []core.Sample, policy DuplicatePolicy) (*Pivot, error) {
	if policy == "" {
		policy = DuplicatesMean
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown duplicate policy %q", policy)
	}

	acc := make(map[cellKey]*accumulator, len(samples))
	wlSet := make(map[float64]struct{})
	colSet := make(map[ColumnKey]struct{})

	for _, s := range samples {
		col := ColumnKey{System: s.System, Date: core.TruncateDay(s.Date), Channel: s.Channel}
		key := cellKey{wavelength: s.Wavelength, col: col}

		if a, ok := acc[key]; ok {
			if policy == DuplicatesReject {
				return nil, fmt.Errorf("%w: wavelength %s, %s %s channel %d",
					core.ErrDuplicateSample, formatFloat(s.Wavelength), col.System,
					col.Date.Format(core.DateLayout), col.Channel)
			}
			a.sum += s.Counts
			a.n++
			continue
		}
		acc[key] = &accumulator{sum: s.Counts, n: 1}
		wlSet[s.Wavelength] = struct{}{}
		colSet[col] = struct{}{}
	}

	p := &Pivot{
		Wavelengths: make([]float64, 0, len(wlSet)),
		Columns:     make([]ColumnKey, 0, len(colSet)),
	}
	for wl := range wlSet {
		p.Wavelengths = append(p.Wavelengths, wl)
	}
	sort.Float64s(p.Wavelengths)
	for col := range colSet {
		p.Columns = append(p.Columns, col)
	}
	sort.Slice(p.Columns, func(i, j int) bool { return p.Columns[i].less(p.Columns[j]) })

	p.Cells = make([][]Cell, len(p.Wavelengths))
	for i, wl := range p.Wavelengths {
		row := make([]Cell, len(p.Columns))
		for j, col := range p.Columns {
			if a, ok := acc[cellKey{wavelength: wl, col: col}]; ok {
				row[j] = Cell{Value: a.sum / float64(a.n), Valid: true}
			}
		}
		p.Cells[i] = row
	}
	return p, nil
}

// WriteCSV writes the pivot with a four-line column header and an index-name line:
//
//	,Counts,Counts
//	System,A,A
//	Date,2024-01-01,2024-01-02
//	Channel,1,1
//	Wavelengths,,
//	400.0,10.0,12.0
func (p *Pivot) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	width := len(p.Columns) + 1

	header := func(label string, value func(ColumnKey) string) []string {
		rec := make([]string, 0, width)
		rec = append(rec, label)
		for _, c := range p.Columns {
			rec = append(rec, value(c))
		}
		return rec
	}

	records := [][]string{
		header("", func(ColumnKey) string { return valueLabel }),
		header("System", func(c ColumnKey) string { return c.System }),
		header("Date", func(c ColumnKey) string { return c.Date.Format(core.DateLayout) }),
		header("Channel", func(c ColumnKey) string { return strconv.Itoa(c.Channel) }),
		header(indexLabel, func(ColumnKey) string { return "" }),
	}
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	for i, wl := range p.Wavelengths {
		rec := make([]string, 0, width)
		rec = append(rec, formatFloat(wl))
		for _, cell := range p.Cells[i] {
			if cell.Valid {
				rec = append(rec, formatFloat(cell.Value))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV pivots samples and returns the UTF-8 encoded file.
// An empty input yields the header lines only.
func CSV(samples []core.Sample, policy DuplicatePolicy) ([]byte, error) {
	p, err := Build(samples, policy)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatFloat prints floats the way pandas does: integral values keep a ".0".
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.Abs(v) >= 1e16 {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

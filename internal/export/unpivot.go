package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// ErrMalformedCSV is returned when the input does not have the export layout.
var ErrMalformedCSV = errors.New("malformed reference spectra csv")

// Entry is one non-empty pivot cell in long form.
type Entry struct {
	Column     ColumnKey
	Wavelength float64
	Counts     float64
}

// Unpivot reads a file produced by WriteCSV back into long entries, row by
// row and column by column. Empty cells are skipped.
func Unpivot(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}
	// Without value columns the first header line is empty and the reader skips it.
	if len(records) > 0 && len(records[0]) == 1 && records[0][0] == "System" {
		records = append([][]string{{""}}, records...)
	}
	if len(records) < 5 {
		return nil, fmt.Errorf("%w: expected 5 header lines, got %d lines", ErrMalformedCSV, len(records))
	}

	labels := []string{"", "System", "Date", "Channel", indexLabel}
	for i, want := range labels {
		if got := records[i][0]; got != want {
			return nil, fmt.Errorf("%w: line %d starts with %q, want %q", ErrMalformedCSV, i+1, got, want)
		}
	}

	width := len(records[0])
	for _, rec := range records[1:5] {
		if len(rec) != width {
			return nil, fmt.Errorf("%w: header lines differ in width", ErrMalformedCSV)
		}
	}
	cols := make([]ColumnKey, width-1)
	for j := 1; j < width; j++ {
		date, err := time.Parse(core.DateLayout, records[2][j])
		if err != nil {
			return nil, fmt.Errorf("%w: column %d date: %w", ErrMalformedCSV, j, err)
		}
		ch, err := strconv.Atoi(records[3][j])
		if err != nil {
			return nil, fmt.Errorf("%w: column %d channel: %w", ErrMalformedCSV, j, err)
		}
		cols[j-1] = ColumnKey{System: records[1][j], Date: date, Channel: ch}
	}

	var out []Entry
	for i, rec := range records[5:] {
		line := i + 6
		if len(rec) != width {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformedCSV, line, len(rec), width)
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d wavelength: %w", ErrMalformedCSV, line, err)
		}
		for j, field := range rec[1:] {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %w", ErrMalformedCSV, line, j+2, err)
			}
			out = append(out, Entry{Column: cols[j], Wavelength: wl, Counts: v})
		}
	}
	return out, nil
}

// Entries lists the non-empty cells of p in the same order Unpivot reads them.
func (p *Pivot) Entries() []Entry {
	var out []Entry
	for i, wl := range p.Wavelengths {
		for j, cell := range p.Cells[i] {
			if cell.Valid {
				out = append(out, Entry{Column: p.Columns[j], Wavelength: wl, Counts: cell.Value})
			}
		}
	}
	return out
}

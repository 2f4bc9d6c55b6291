package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// FileExt is the extension of fixture files in the seeds directory.
const FileExt = ".json"

// record is the on-disk form of one measurement, keyed like the table columns.
type record struct {
	System                  string          `json:"System"`
	Channel                 int             `json:"Channel"`
	Date                    string          `json:"Date"`
	Operator                string          `json:"Operator"`
	SpectrometerIntegration float64         `json:"Spectrometer_Integration"`
	SpectrometerAveraging   float64         `json:"Spectrometer_Averaging"`
	SpectraUUID             string          `json:"Spectra_UUID"`
	Spectra                 []core.Spectrum `json:"Spectra"`
}

// ReadFixture decodes a JSON array of measurement records.
func ReadFixture(r io.Reader) ([]core.Measurement, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var recs []record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	out := make([]core.Measurement, 0, len(recs))
	for i, rec := range recs {
		date, err := time.Parse(core.DateLayout, rec.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: invalid Date %q: %w", i, rec.Date, err)
		}
		if rec.SpectraUUID == "" {
			return nil, fmt.Errorf("record %d: Spectra_UUID is required", i)
		}
		out = append(out, core.Measurement{
			System:                  rec.System,
			Channel:                 rec.Channel,
			Date:                    date,
			Operator:                rec.Operator,
			SpectrometerIntegration: rec.SpectrometerIntegration,
			SpectrometerAveraging:   rec.SpectrometerAveraging,
			SpectraUUID:             rec.SpectraUUID,
			Spectra:                 rec.Spectra,
		})
	}
	return out, nil
}

// ReadFixtureFile reads a fixture from path.
func ReadFixtureFile(path string) ([]core.Measurement, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the seeds directory listing
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ms, err := ReadFixture(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ms, nil
}

// WriteFixture encodes measurements as an indented JSON array.
func WriteFixture(w io.Writer, ms []core.Measurement) error {
	recs := make([]record, 0, len(ms))
	for _, m := range ms {
		recs = append(recs, record{
			System:                  m.System,
			Channel:                 m.Channel,
			Date:                    m.Date.Format(core.DateLayout),
			Operator:                m.Operator,
			SpectrometerIntegration: m.SpectrometerIntegration,
			SpectrometerAveraging:   m.SpectrometerAveraging,
			SpectraUUID:             m.SpectraUUID,
			Spectra:                 m.Spectra,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

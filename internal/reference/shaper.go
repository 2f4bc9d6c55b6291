package reference

import (
	"fmt"
	"sort"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// Shape expands measurements into one sample per (wavelength, count) pair.
//
// Every measurement must carry exactly one spectrum whose Wavelengths and
// Counts have equal length. Measurement is the dense rank of Spectra_UUID,
// ascending, over the whole input. Samples keep the input record order and
// the spectrum's pair order.
func Shape(ms []core.Measurement) ([]core.Sample, error) {
	ranks := DenseRank(ms)

	total := 0
	for _, m := range ms {
		if len(m.Spectra) != 1 {
			return nil, &core.ShapeError{
				SpectraUUID: m.SpectraUUID,
				Err:         fmt.Errorf("%w: got %d spectra", core.ErrSpectraShape, len(m.Spectra)),
			}
		}
		s := m.Spectra[0]
		if len(s.Wavelengths) != len(s.Counts) {
			return nil, &core.ShapeError{
				SpectraUUID: m.SpectraUUID,
				Err: fmt.Errorf("%w: %d wavelengths, %d counts",
					core.ErrSampleMismatch, len(s.Wavelengths), len(s.Counts)),
			}
		}
		total += len(s.Wavelengths)
	}

	samples := make([]core.Sample, 0, total)
	for _, m := range ms {
		rank := ranks[m.SpectraUUID]
		label := core.MeasurementLabel(m.Date, rank)
		s := m.Spectra[0]
		for i, wl := range s.Wavelengths {
			samples = append(samples, core.Sample{
				System:          m.System,
				Channel:         m.Channel,
				Date:            m.Date,
				SpectraUUID:     m.SpectraUUID,
				Measurement:     rank,
				DateMeasurement: label,
				Wavelength:      wl,
				Counts:          s.Counts[i],
			})
		}
	}
	return samples, nil
}

// DenseRank maps each distinct Spectra_UUID to its 1-based rank in ascending order.
func DenseRank(ms []core.Measurement) map[string]int {
	ids := make([]string, 0, len(ms))
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.SpectraUUID]; ok {
			continue
		}
		seen[m.SpectraUUID] = struct{}{}
		ids = append(ids, m.SpectraUUID)
	}
	sort.Strings(ids)

	ranks := make(map[string]int, len(ids))
	for i, id := range ids {
		ranks[id] = i + 1
	}
	return ranks
}

// MaxCount is the largest count of one measurement.
type MaxCount struct {
	Date        time.Time
	SpectraUUID string
	Measurement int
	Counts      float64
}

// MaxCounts groups samples by (Date, Spectra_UUID, Measurement) and keeps the
// maximum count of each group, ordered by the group key.
func MaxCounts(samples []core.Sample) []MaxCount {
	type key struct {
		date        time.Time
		id          string
		measurement int
	}

	index := make(map[key]int)
	var out []MaxCount
	for _, s := range samples {
		k := key{s.Date, s.SpectraUUID, s.Measurement}
		if i, ok := index[k]; ok {
			if s.Counts > out[i].Counts {
				out[i].Counts = s.Counts
			}
			continue
		}
		index[k] = len(out)
		out = append(out, MaxCount{
			Date:        s.Date,
			SpectraUUID: s.SpectraUUID,
			Measurement: s.Measurement,
			Counts:      s.Counts,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SpectraUUID != b.SpectraUUID {
			return a.SpectraUUID < b.SpectraUUID
		}
		return a.Measurement < b.Measurement
	})
	return out
}

// Labels returns the distinct Date_Measurement labels in first-seen order.
func Labels(samples []core.Sample) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, s := range samples {
		if _, ok := seen[s.DateMeasurement]; ok {
			continue
		}
		seen[s.DateMeasurement] = struct{}{}
		labels = append(labels, s.DateMeasurement)
	}
	return labels
}

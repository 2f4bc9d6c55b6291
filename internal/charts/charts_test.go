package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testSamples() []core.Sample {
	var out []core.Sample
	for i, label := range []string{"2024-01-02 (2)", "2024-01-01 (1)"} {
		for j := 0; j < 4; j++ {
			out = append(out, core.Sample{
				Date:            time.Date(2024, 1, 2-i, 0, 0, 0, 0, time.UTC),
				SpectraUUID:     label,
				Measurement:     2 - i,
				DateMeasurement: label,
				Wavelength:      400 + float64(j),
				Counts:          float64(10 * (j + i + 1)),
			})
		}
	}
	return out
}

func TestSpectra(t *testing.T) {
	tests := []struct {
		name    string
		samples []core.Sample
		check   func(t *testing.T, out []byte)
	}{
		{
			name:    "lines per label",
			samples: testSamples(),
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "<svg")
				assert.Contains(t, string(out), "2024-01-02 (2)")
				assert.Contains(t, string(out), "2024-01-01 (1)")
			},
		},
		{
			name:    "empty renders placeholder",
			samples: nil,
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "no data")
			},
		},
		{
			name: "single point",
			samples: []core.Sample{{
				DateMeasurement: "2024-01-01 (1)", Wavelength: 400, Counts: 7,
			}},
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "<svg")
			},
		},
		{
			name: "flat line",
			samples: []core.Sample{
				{DateMeasurement: "a", Wavelength: 400, Counts: 0},
				{DateMeasurement: "a", Wavelength: 401, Counts: 0},
			},
			check: func(t *testing.T, out []byte) {
				assert.Contains(t, string(out), "<svg")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Renderer{}.Spectra(&buf, SVG, tt.samples))
			tt.check(t, buf.Bytes())
		})
	}
}

func TestMaxCounts(t *testing.T) {
	r := Renderer{Width: 640, Height: 320}

	t.Run("svg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.MaxCounts(&buf, SVG, reference.MaxCounts(testSamples())))
		assert.Contains(t, buf.String(), "Maximum counts over time")
	})

	t.Run("single date", func(t *testing.T) {
		var buf bytes.Buffer
		maxes := []reference.MaxCount{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Counts: 5}}
		require.NoError(t, r.MaxCounts(&buf, SVG, maxes))
	})

	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.MaxCounts(&buf, PNG, nil))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "image/svg+xml", SVG.ContentType())
	assert.Equal(t, "image/png", PNG.ContentType())

	var buf bytes.Buffer
	err := Renderer{}.Spectra(&buf, Format("gif"), testSamples())
	assert.Error(t, err)
}

func TestDateFormatter(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", dateFormatter(d))
	assert.Equal(t, "2024-03-05", dateFormatter(float64(d.UnixNano())))
}

func TestMetadataRows(t *testing.T) {
	ms := []core.Measurement{{
		System:                  "Spectrometer_A",
		Channel:                 2,
		Date:                    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Operator:                "jd",
		SpectrometerIntegration: 12.5,
		SpectrometerAveraging:   10,
	}}
	assert.Equal(t, [][]string{{"Spectrometer_A", "2", "2024-01-03", "jd", "12.5", "10"}}, MetadataRows(ms))
	assert.Len(t, MetadataHeader, 6)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "3 measurements, 15 samples", Summary(3, 15))
	assert.Equal(t, "1,204 measurements, 73,444 samples", Summary(1204, 73444))
}

package reference

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/refdash/pkg/core"
)

var measurementCols = []string{
	ColSystem, ColChannel, ColDate, ColOperator, ColIntegration, ColAveraging, ColSpectraUUID, ColSpectra,
}

func TestDecodeMeasurements_Representations(t *testing.T) {
	id := uuid.MustParse("5b0e4c5e-8f7a-4b36-9c0a-3f8d2f5e1a01")
	want := core.Measurement{
		System:                  "Spectrometer_A",
		Channel:                 1,
		Date:                    day("2024-01-03"),
		Operator:                "jd",
		SpectrometerIntegration: 100,
		SpectrometerAveraging:   5,
		SpectraUUID:             id.String(),
		Spectra:                 []core.Spectrum{{Wavelengths: []float64{400, 401}, Counts: []float64{10, 12.5}}},
	}

	tests := []struct {
		name string
		row  []any
	}{
		{
			name: "nested values",
			row: []any{
				"Spectrometer_A", int32(1), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "jd", int64(100), 5.0,
				id.String(),
				[]any{map[string]any{"Wavelengths": []any{400.0, 401.0}, "Counts": []any{10.0, 12.5}}},
			},
		},
		{
			name: "json text and iso strings",
			row: []any{
				"Spectrometer_A", int64(1), "2024-01-03", "jd", "100", int64(5),
				id.String(),
				`[{"Wavelengths":[400,401],"Counts":[10,12.5]}]`,
			},
		},
		{
			name: "bytes",
			row: []any{
				[]byte("Spectrometer_A"), 1.0, []byte("2024-01-03T00:00:00Z"), []byte("jd"), 100.0, 5.0,
				id[:],
				[]byte(`[{"Wavelengths":[400,401],"Counts":[10,12.5]}]`),
			},
		},
		{
			name: "array uuid and timestamp date",
			row: []any{
				"Spectrometer_A", 1, time.Date(2024, 1, 3, 9, 45, 0, 0, time.UTC), "jd", 100, 5,
				[16]byte(id),
				[]any{map[string]any{"Wavelengths": []float64{400, 401}, "Counts": []float64{10, 12.5}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &core.Table{Columns: measurementCols, Rows: [][]any{tt.row}}
			got, err := DecodeMeasurements(table)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0])
		})
	}
}

func TestDecodeMeasurements_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		msg  string
	}{
		{
			name: "bad json",
			row:  []any{"S", 1, "2024-01-01", "op", 1, 1, "id", "[{"},
			msg:  "decode row 0: column Spectra",
		},
		{
			name: "bad date",
			row:  []any{"S", 1, "not a date", "op", 1, 1, "id", nil},
			msg:  "decode row 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &core.Table{Columns: measurementCols, Rows: [][]any{tt.row}}
			_, err := DecodeMeasurements(table)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeMeasurements_Empty(t *testing.T) {
	got, err := DecodeMeasurements(&core.Table{Columns: measurementCols})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeStatus(t *testing.T) {
	table := &core.Table{
		Columns: []string{ColSystem, ColExistsToday},
		Rows: [][]any{
			{"A", true},
			{"B", int64(0)},
			{[]byte("C"), int64(1)},
		},
	}

	got, err := DecodeStatus(table)
	require.NoError(t, err)
	assert.Equal(t, []core.StatusRow{
		{System: "A", RecordExistsToday: true},
		{System: "B", RecordExistsToday: false},
		{System: "C", RecordExistsToday: true},
	}, got)
}

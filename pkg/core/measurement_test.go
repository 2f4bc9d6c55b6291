package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilter(t *testing.T) {
	now := time.Date(2024, 1, 8, 15, 30, 0, 0, time.UTC)
	f := DefaultFilter(now)

	assert.Equal(t, 1, f.Channel)
	assert.Equal(t, "2024-01-01", f.From.Format(DateLayout))
	assert.Equal(t, "2024-01-08", f.To.Format(DateLayout))
	assert.Empty(t, f.System)
}

func TestMeasurementLabel(t *testing.T) {
	d := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-03 (2)", MeasurementLabel(d, 2))
}

func TestStatusRowGlyph(t *testing.T) {
	assert.Equal(t, "🟢", StatusRow{System: "A", RecordExistsToday: true}.Glyph())
	assert.Equal(t, "🔴", StatusRow{System: "A"}.Glyph())
}

func TestValidChannel(t *testing.T) {
	tests := []struct {
		ch   int
		want bool
	}{
		{1, true},
		{2, true},
		{0, false},
		{3, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidChannel(tt.ch), "channel %d", tt.ch)
	}
}

func TestTableRecord(t *testing.T) {
	tbl := &Table{
		Columns: []string{"System", "Channel"},
		Rows:    [][]any{{"A", int64(1)}, {[]byte("B"), nil}},
	}

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 1, tbl.Index("Channel"))
	assert.Equal(t, -1, tbl.Index("missing"))
	assert.Equal(t, Record{"System": "A", "Channel": int64(1)}, tbl.Record(0))

	systems, err := tbl.Strings("System")
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, systems)

	_, err = tbl.Strings("missing")
	assert.Error(t, err)
}

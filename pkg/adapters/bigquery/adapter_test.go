package bigquery

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceSchema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "System", Type: bigquery.StringFieldType},
		{Name: "Date", Type: bigquery.DateFieldType},
		{
			Name:     "Spectra",
			Type:     bigquery.RecordFieldType,
			Repeated: true,
			Schema: bigquery.Schema{
				{Name: "Wavelengths", Type: bigquery.FloatFieldType, Repeated: true},
				{Name: "Counts", Type: bigquery.FloatFieldType, Repeated: true},
			},
		},
	}
}

func TestNormalizeRow(t *testing.T) {
	row := []bigquery.Value{
		"SYS-A",
		civil.Date{Year: 2024, Month: time.March, Day: 5},
		[]bigquery.Value{
			[]bigquery.Value{
				[]bigquery.Value{400.0, 401.0},
				[]bigquery.Value{10.0, 20.0},
			},
		},
	}

	got := normalizeRow(referenceSchema(), row)

	require.Len(t, got, 3)
	assert.Equal(t, "SYS-A", got[0])
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), got[1])

	spectra, ok := got[2].([]any)
	require.True(t, ok)
	require.Len(t, spectra, 1)
	rec, ok := spectra[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{400.0, 401.0}, rec["Wavelengths"])
	assert.Equal(t, []any{10.0, 20.0}, rec["Counts"])
}

func TestNormalizeRow_Nulls(t *testing.T) {
	got := normalizeRow(referenceSchema(), []bigquery.Value{nil, nil, nil})
	assert.Equal(t, []any{nil, nil, nil}, got)
}

func TestColumnNames(t *testing.T) {
	assert.Equal(t, []string{"System", "Date", "Spectra"}, columnNames(referenceSchema()))
	assert.Empty(t, columnNames(nil))
}

func TestConnect_RequiresProject(t *testing.T) {
	adp := New(nil)
	err := adp.Connect(context.Background(), adapter.Config{Type: "bigquery"})
	assert.ErrorIs(t, err, ErrProjectRequired)
	assert.False(t, adp.IsConnected())
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.ErrorIs(t, adp.Exec(ctx, "SELECT 1"), core.ErrNotConnected)
	_, err := adp.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, core.ErrNotConnected)
	assert.NoError(t, adp.Close())
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "bigquery", Dialect.Name)
	assert.Equal(t, "?", Dialect.FormatPlaceholder(2))
	assert.Equal(t, "`qc.refs.abc`", Dialect.QuoteTable("qc.refs.abc"))
	assert.Equal(t, "CAST(? AS DATE)", Dialect.CastDate("?"))
}

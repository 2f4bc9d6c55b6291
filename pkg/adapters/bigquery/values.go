package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

func columnNames(schema bigquery.Schema) []string {
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = f.Name
	}
	return cols
}

// normalizeRow converts BigQuery values into the shapes the SQL adapters produce:
// records become map[string]any, repeated fields []any, and DATE time.Time at UTC midnight.
func normalizeRow(schema bigquery.Schema, row []bigquery.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if i < len(schema) {
			out[i] = normalizeValue(schema[i], v)
		} else {
			out[i] = v
		}
	}
	return out
}

func normalizeValue(f *bigquery.FieldSchema, v bigquery.Value) any {
	if v == nil {
		return nil
	}

	if f.Repeated {
		items, ok := v.([]bigquery.Value)
		if !ok {
			return v
		}
		elem := *f
		elem.Repeated = false
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalizeValue(&elem, item)
		}
		return out
	}

	switch val := v.(type) {
	case []bigquery.Value:
		if f.Type != bigquery.RecordFieldType {
			return v
		}
		rec := make(map[string]any, len(f.Schema))
		for i, sub := range f.Schema {
			if i < len(val) {
				rec[sub.Name] = normalizeValue(sub, val[i])
			}
		}
		return rec
	case civil.Date:
		return time.Date(val.Year, val.Month, val.Day, 0, 0, 0, 0, time.UTC)
	case civil.DateTime:
		return val.In(time.UTC)
	default:
		return v
	}
}

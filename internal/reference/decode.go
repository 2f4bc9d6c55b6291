package reference

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"

	"github.com/leapstack-labs/refdash/pkg/core"
)

var timeType = reflect.TypeOf(time.Time{})

// DecodeMeasurements converts a main-query result into measurements.
// Backends disagree on representations, so dates, UUIDs, and the nested
// Spectra column are normalized before the weakly typed decode.
func DecodeMeasurements(t *core.Table) ([]core.Measurement, error) {
	out := make([]core.Measurement, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		m, err := decodeMeasurement(t.Record(i))
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeMeasurement(rec core.Record) (core.Measurement, error) {
	var m core.Measurement

	spectra, err := decodeSpectra(rec[ColSpectra])
	if err != nil {
		return m, fmt.Errorf("column %s: %w", ColSpectra, err)
	}
	id, err := decodeUUID(rec[ColSpectraUUID])
	if err != nil {
		return m, fmt.Errorf("column %s: %w", ColSpectraUUID, err)
	}

	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == ColSpectra || k == ColSpectraUUID {
			continue
		}
		fields[k] = v
	}

	if err := decode(fields, &m); err != nil {
		return m, err
	}
	m.SpectraUUID = id
	m.Spectra = spectra
	return m, nil
}

// DecodeStatus converts a status query result into rows.
func DecodeStatus(t *core.Table) ([]core.StatusRow, error) {
	out := make([]core.StatusRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		var row struct {
			System string `mapstructure:"System"`
			Exists bool   `mapstructure:"Record_Exists_Today"`
		}
		if err := decode(t.Record(i), &row); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		out = append(out, core.StatusRow{System: row.System, RecordExistsToday: row.Exists})
	}
	return out, nil
}

func decode(input any, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(bytesToStringHook, dateHook),
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func bytesToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if b, ok := data.([]byte); ok && to.Kind() != reflect.Slice {
		return string(b), nil
	}
	return data, nil
}

// dateHook accepts time.Time or ISO date strings and keeps only the calendar date.
func dateHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return core.TruncateDay(v), nil
	case string:
		return parseDate(v)
	default:
		return data, nil
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(core.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return core.TruncateDay(t), nil
	}
	if len(s) > len(core.DateLayout) {
		if t, err := time.Parse(core.DateLayout, s[:len(core.DateLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// decodeUUID renders binary UUIDs in canonical form and passes text through.
func decodeUUID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", nil
	case string:
		return id, nil
	case uuid.UUID:
		return id.String(), nil
	case [16]byte:
		return uuid.UUID(id).String(), nil
	case []byte:
		if len(id) == 16 {
			u, err := uuid.FromBytes(id)
			if err != nil {
				return "", err
			}
			return u.String(), nil
		}
		return string(id), nil
	case fmt.Stringer:
		return id.String(), nil
	}

	// Driver-specific named [16]byte types.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Len() == 16 && rv.Type().Elem().Kind() == reflect.Uint8 {
		var u uuid.UUID
		reflect.Copy(reflect.ValueOf(u[:]), rv)
		return u.String(), nil
	}
	return fmt.Sprintf("%v", v), nil
}

// decodeSpectra accepts a list of {Wavelengths, Counts} records either as
// nested Go values or as JSON text.
func decodeSpectra(v any) ([]core.Spectrum, error) {
	var spectra []core.Spectrum
	switch raw := v.(type) {
	case nil:
		return nil, nil
	case string:
		if err := json.Unmarshal([]byte(raw), &spectra); err != nil {
			return nil, err
		}
	case []byte:
		if err := json.Unmarshal(raw, &spectra); err != nil {
			return nil, err
		}
	default:
		if err := decode(raw, &spectra); err != nil {
			return nil, err
		}
	}
	return spectra, nil
}

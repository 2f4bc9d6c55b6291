package core

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in labels, parameters, and CSV output.
const DateLayout = "2006-01-02"

// Channels are the selectable spectrometer channels.
var Channels = []int{1, 2}

// Measurement is one reference measurement record as stored in the database.
type Measurement struct {
	System                  string     `mapstructure:"System"`
	Channel                 int        `mapstructure:"Channel"`
	Date                    time.Time  `mapstructure:"Date"`
	Operator                string     `mapstructure:"Operator"`
	SpectrometerIntegration float64    `mapstructure:"Spectrometer_Integration"`
	SpectrometerAveraging   float64    `mapstructure:"Spectrometer_Averaging"`
	SpectraUUID             string     `mapstructure:"Spectra_UUID"`
	Spectra                 []Spectrum `mapstructure:"Spectra"`
}

// Spectrum holds parallel wavelength and count sequences.
type Spectrum struct {
	Wavelengths []float64 `mapstructure:"Wavelengths" json:"Wavelengths"`
	Counts      []float64 `mapstructure:"Counts" json:"Counts"`
}

// Sample is one (wavelength, count) pair of a measurement, tagged with its rank.
type Sample struct {
	System          string
	Channel         int
	Date            time.Time
	SpectraUUID     string
	Measurement     int
	DateMeasurement string
	Wavelength      float64
	Counts          float64
}

// MeasurementLabel formats the Date_Measurement display label.
func MeasurementLabel(date time.Time, rank int) string {
	return fmt.Sprintf("%s (%d)", date.Format(DateLayout), rank)
}

// StatusRow reports whether a system recorded anything on the current date.
type StatusRow struct {
	System            string
	RecordExistsToday bool
}

// Glyph renders the status flag the way the dashboard shows it.
func (s StatusRow) Glyph() string {
	if s.RecordExistsToday {
		return "🟢"
	}
	return "🔴"
}

// Filter is the operator's current selection.
type Filter struct {
	System  string    `json:"system"`
	Channel int       `json:"channel"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// DefaultFilter returns the selection shown on first load: channel 1, the last week.
func DefaultFilter(now time.Time) Filter {
	today := TruncateDay(now)
	return Filter{
		Channel: Channels[0],
		From:    today.AddDate(0, 0, -7),
		To:      today,
	}
}

// ValidChannel reports whether ch is one of Channels.
func ValidChannel(ch int) bool {
	for _, c := range Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// TruncateDay returns the calendar date of t as midnight UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

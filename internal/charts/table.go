package charts

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leapstack-labs/refdash/pkg/core"
)

var printer = message.NewPrinter(language.English)

// MetadataHeader names the metadata table columns.
var MetadataHeader = []string{
	"System", "Channel", "Date", "Operator", "Spectrometer_Integration", "Spectrometer_Averaging",
}

// MetadataRows formats one row per measurement, in query order.
func MetadataRows(ms []core.Measurement) [][]string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			m.System,
			strconv.Itoa(m.Channel),
			m.Date.Format(core.DateLayout),
			m.Operator,
			strconv.FormatFloat(m.SpectrometerIntegration, 'g', -1, 64),
			strconv.FormatFloat(m.SpectrometerAveraging, 'g', -1, 64),
		})
	}
	return rows
}

// Summary describes the size of a selection with grouped thousands.
func Summary(measurements, samples int) string {
	return printer.Sprintf("%d measurements, %d samples", measurements, samples)
}

package output

// StatusOutput is the JSON form of the status board.
type StatusOutput struct {
	Date    string        `json:"date"`
	Systems []StatusInfo  `json:"systems"`
	Summary StatusSummary `json:"summary"`
}

// StatusInfo is one system on the status board.
type StatusInfo struct {
	System        string `json:"system"`
	RecordedToday bool   `json:"recorded_today"`
	Indicator     string `json:"indicator"`
}

// StatusSummary counts systems by today's state.
type StatusSummary struct {
	Total    int `json:"total"`
	Recorded int `json:"recorded"`
	Missing  int `json:"missing"`
}

// SystemsOutput lists the selectable systems.
type SystemsOutput struct {
	Systems []string `json:"systems"`
	Default string   `json:"default,omitempty"`
}

// FilterInfo echoes the resolved selection.
type FilterInfo struct {
	System  string `json:"system"`
	Channel int    `json:"channel"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// MeasurementInfo describes one measurement in the selection.
type MeasurementInfo struct {
	SpectraUUID string  `json:"spectra_uuid"`
	System      string  `json:"system"`
	Channel     int     `json:"channel"`
	Date        string  `json:"date"`
	Operator    string  `json:"operator"`
	Integration float64 `json:"spectrometer_integration"`
	Averaging   float64 `json:"spectrometer_averaging"`
	Measurement int     `json:"measurement"`
	Label       string  `json:"label"`
	Points      int     `json:"points"`
}

// MaxCountInfo is the peak count of one measurement.
type MaxCountInfo struct {
	Date        string  `json:"date"`
	SpectraUUID string  `json:"spectra_uuid"`
	Measurement int     `json:"measurement"`
	Counts      float64 `json:"counts"`
}

// InspectOutput is the JSON form of an inspection.
type InspectOutput struct {
	Filter       FilterInfo        `json:"filter"`
	Measurements []MeasurementInfo `json:"measurements"`
	MaxCounts    []MaxCountInfo    `json:"max_counts"`
	Summary      InspectSummary    `json:"summary"`
}

// InspectSummary counts the inspection result.
type InspectSummary struct {
	Measurements int `json:"measurements"`
	Samples      int `json:"samples"`
}

// ExportOutput reports a written CSV export.
type ExportOutput struct {
	File        string `json:"file"`
	Bytes       int    `json:"bytes"`
	Wavelengths int    `json:"wavelengths"`
	Columns     int    `json:"columns"`
	Duplicates  string `json:"duplicates"`
}

// UnpivotOutput is the long form of an exported CSV.
type UnpivotOutput struct {
	Entries []UnpivotEntry `json:"entries"`
}

// UnpivotEntry is one cell of an exported CSV.
type UnpivotEntry struct {
	System     string  `json:"system"`
	Date       string  `json:"date"`
	Channel    int     `json:"channel"`
	Wavelength float64 `json:"wavelength"`
	Counts     float64 `json:"counts"`
}

// SeedOutput reports loaded fixtures.
type SeedOutput struct {
	Table   string      `json:"table"`
	Seeds   []SeedInfo  `json:"seeds"`
	Summary SeedSummary `json:"summary"`
}

// SeedInfo is one loaded fixture file.
type SeedInfo struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
	Rows     int    `json:"rows"`
}

// SeedSummary totals a seed run.
type SeedSummary struct {
	TotalSeeds int `json:"total_seeds"`
	TotalRows  int `json:"total_rows"`
}

// MigrateOutput reports the schema version after migrating.
type MigrateOutput struct {
	Dialect string `json:"dialect"`
	Version int64  `json:"version"`
}

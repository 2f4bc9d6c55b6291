package dashboard

import (
	"net/url"
	"strconv"

	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// Element ids patched over SSE.
const (
	ResultsID = "results"
	FiltersID = "filters"
)

// Routes of the dashboard feature.
const (
	InspectPath   = "/api/inspect"
	DownloadPath  = "/download"
	SpectraChart  = "/charts/spectra"
	MaxCountChart = "/charts/max-counts"
)

// PageData is everything the dashboard page renders.
type PageData struct {
	Status    []core.StatusRow
	StatusErr error
	Systems   []string
	Input     reference.FilterInput
	Results   ResultsData
}

// ResultsData is the inspection part of the page.
type ResultsData struct {
	Query    string
	Summary  string
	Metadata [][]string
	Empty    bool
	Err      string
}

// filterQuery encodes f as the query string of the chart and download links.
func filterQuery(f core.Filter) string {
	v := url.Values{}
	v.Set("system", f.System)
	v.Set("channel", strconv.Itoa(f.Channel))
	v.Set("from", f.From.Format(core.DateLayout))
	v.Set("to", f.To.Format(core.DateLayout))
	return v.Encode()
}

// inputFromQuery reads a filter from URL query parameters.
func inputFromQuery(v url.Values) reference.FilterInput {
	return reference.FilterInput{
		System:  v.Get("system"),
		Channel: v.Get("channel"),
		From:    v.Get("from"),
		To:      v.Get("to"),
	}
}

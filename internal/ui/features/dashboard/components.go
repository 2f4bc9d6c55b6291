package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/internal/ui/features/status"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// Dashboard renders the page body: status, filters, and results.
func Dashboard(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>"+common.Esc(common.AppName)+"</h1>\n"); err != nil {
			return err
		}
		for _, c := range []templ.Component{
			status.Section(data.Status, data.StatusErr),
			Filters(data.Systems, data.Input),
			Results(data.Results),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Filters renders the four selection controls bound to datastar signals.
// Any change posts the signals to the inspect endpoint.
func Filters(systems []string, in reference.FilterInput) templ.Component {
	return common.HTML(func(sb *strings.Builder) {
		signals, _ := json.Marshal(in)
		post := `@post('` + InspectPath + `')`

		sb.WriteString(`<h2>Inspect Reference Spectra</h2>` + "\n")
		sb.WriteString(`<form id="` + FiltersID + `" class="filters" data-signals="` + common.Esc(string(signals)) + `" onsubmit="return false">` + "\n")

		sb.WriteString(`<label>System<select data-bind:system data-on:change="` + post + `">`)
		for _, s := range systems {
			option(sb, s, s, s == in.System)
		}
		sb.WriteString("</select></label>\n")

		sb.WriteString(`<label>Channel<select data-bind:channel data-on:change="` + post + `">`)
		for _, ch := range core.Channels {
			v := strconv.Itoa(ch)
			option(sb, v, v, v == in.Channel)
		}
		sb.WriteString("</select></label>\n")

		sb.WriteString(`<label>Date from<input type="date" data-bind:from value="` + common.Esc(in.From) + `" data-on:change="` + post + `"></label>` + "\n")
		sb.WriteString(`<label>Date to<input type="date" data-bind:to value="` + common.Esc(in.To) + `" data-on:change="` + post + `"></label>` + "\n")
		sb.WriteString("</form>\n")
	})
}

func option(sb *strings.Builder, value, label string, selected bool) {
	sb.WriteString(`<option value="` + common.Esc(value) + `"`)
	if selected {
		sb.WriteString(" selected")
	}
	sb.WriteString(">" + common.Esc(label) + "</option>")
}

// Results renders the charts, metadata table, and download link for one selection.
func Results(data ResultsData) templ.Component {
	if data.Err != "" {
		return common.ErrorPanel(ResultsID, data.Err)
	}
	return common.HTML(func(sb *strings.Builder) {
		q := common.Esc(data.Query)
		sb.WriteString(`<div id="` + ResultsID + `">` + "\n")
		sb.WriteString(`<p class="summary">` + common.Esc(data.Summary) + "</p>\n")
		if data.Empty {
			sb.WriteString(`<p class="summary">No measurements match the selection.</p>` + "\n")
		}

		sb.WriteString("<h2>Spectra</h2>\n")
		sb.WriteString(`<img class="chart" alt="Counts by wavelength" src="` + SpectraChart + "." + string(charts.SVG) + "?" + q + `">` + "\n")

		sb.WriteString("<h2>Measurements</h2>\n")
		common.Table(sb, "metadata", charts.MetadataHeader, data.Metadata)

		sb.WriteString("<h2>Maximum Counts</h2>\n")
		sb.WriteString(`<img class="chart" alt="Maximum counts over time" src="` + MaxCountChart + "." + string(charts.SVG) + "?" + q + `">` + "\n")

		sb.WriteString(`<a class="download" href="` + DownloadPath + "?" + q + `" download="` + export.FileName + `">Download CSV</a>` + "\n")
		sb.WriteString("</div>\n")
	})
}

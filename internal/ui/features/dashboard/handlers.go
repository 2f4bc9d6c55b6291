package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps.WithDefaults()}
}

// Page renders the full dashboard for the session's selection.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.deps.QueryContext(r)
	defer cancel()

	data := h.buildPage(ctx, h.loadInput(r))
	page := common.Page(common.AppName, Dashboard(data))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) buildPage(ctx context.Context, in reference.FilterInput) PageData {
	var data PageData
	data.Status, data.StatusErr = h.deps.Repository.Status(ctx)

	systems, err := h.deps.Repository.Systems(ctx)
	if err != nil {
		data.Input = in
		data.Results = ResultsData{Err: err.Error()}
		return data
	}
	data.Systems = systems

	in.System = reference.DefaultSystem(in.System, systems)
	f, err := in.Resolve(h.deps.Now())
	if err != nil {
		// A stale session value; start over from the defaults.
		f = core.DefaultFilter(h.deps.Now())
		f.System = in.System
	}
	data.Input = reference.InputFromFilter(f)
	data.Results = h.buildResults(ctx, f)
	return data
}

func (h *Handlers) buildResults(ctx context.Context, f core.Filter) ResultsData {
	insp, err := h.deps.Repository.Inspect(ctx, f)
	if err != nil {
		h.deps.Logger.Error("inspect failed", "system", f.System, "channel", f.Channel, "error", err)
		return ResultsData{Err: err.Error()}
	}
	return ResultsData{
		Query:    filterQuery(f),
		Summary:  charts.Summary(len(insp.Measurements), len(insp.Samples)),
		Metadata: charts.MetadataRows(insp.Measurements),
		Empty:    len(insp.Measurements) == 0,
	}
}

// Inspect re-runs the pipeline for the posted signals and patches the results.
func (h *Handlers) Inspect(w http.ResponseWriter, r *http.Request) {
	// Signals are read before the SSE stream takes over the response.
	var in reference.FilterInput
	if err := datastar.ReadSignals(r, &in); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(Results(ResultsData{Err: "Failed to read signals: " + err.Error()}))
		return
	}

	f, err := in.Resolve(h.deps.Now())
	if err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(Results(ResultsData{Err: err.Error()}))
		return
	}
	h.saveInput(w, r, reference.InputFromFilter(f))

	sse := datastar.NewSSE(w, r)
	ctx, cancel := h.deps.QueryContext(r)
	defer cancel()

	if err := sse.PatchElementTempl(Results(h.buildResults(ctx, f))); err != nil {
		h.deps.Logger.Debug("patch failed", "error", err)
	}
}

// SpectraChart serves the counts-by-wavelength chart for the query's selection.
func (h *Handlers) SpectraChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(out io.Writer, format charts.Format, insp *reference.Inspection) error {
		return h.deps.Charts.Spectra(out, format, insp.Samples)
	})
}

// MaxCountsChart serves the maximum-counts-over-date chart for the query's selection.
func (h *Handlers) MaxCountsChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(out io.Writer, format charts.Format, insp *reference.Inspection) error {
		return h.deps.Charts.MaxCounts(out, format, reference.MaxCounts(insp.Samples))
	})
}

type drawFunc func(io.Writer, charts.Format, *reference.Inspection) error

func (h *Handlers) serveChart(w http.ResponseWriter, r *http.Request, draw drawFunc) {
	format := charts.Format(chi.URLParam(r, "format"))
	if format != charts.SVG && format != charts.PNG {
		http.Error(w, fmt.Sprintf("unsupported chart format %q", format), http.StatusNotFound)
		return
	}

	insp, status, err := h.inspectQuery(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, format, insp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// Download serves the pivoted CSV for the query's selection.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	insp, status, err := h.inspectQuery(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	body, err := h.deps.Exporter.Export(insp.Samples)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	_, _ = w.Write(body)
}

// inspectQuery runs the pipeline for the filter in the URL query.
func (h *Handlers) inspectQuery(r *http.Request) (*reference.Inspection, int, error) {
	f, err := inputFromQuery(r.URL.Query()).Resolve(h.deps.Now())
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	ctx, cancel := h.deps.QueryContext(r)
	defer cancel()

	insp, err := h.deps.Repository.Inspect(ctx, f)
	if err != nil {
		if errors.Is(err, core.ErrInvalidChannel) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return insp, http.StatusOK, nil
}

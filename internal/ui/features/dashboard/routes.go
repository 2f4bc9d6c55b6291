// Package dashboard provides the reference spectra page: filters, charts,
// the metadata table, and the CSV download.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/refdash/internal/ui/features/common"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.Page)
	router.Post(InspectPath, handlers.Inspect)
	router.Get(SpectraChart+".{format}", handlers.SpectraChart)
	router.Get(MaxCountChart+".{format}", handlers.MaxCountsChart)
	router.Get(DownloadPath, handlers.Download)

	return nil
}

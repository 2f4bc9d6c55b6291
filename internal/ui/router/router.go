// Package router sets up HTTP routes for the UI server.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	dashboardFeature "github.com/leapstack-labs/refdash/internal/ui/features/dashboard"
	statusFeature "github.com/leapstack-labs/refdash/internal/ui/features/status"
	"github.com/leapstack-labs/refdash/internal/ui/resources"
)

// MetricsPath serves the Prometheus registry.
const MetricsPath = "/metrics"

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	deps = deps.WithDefaults()

	// Static assets
	router.Handle("/static/*", resources.Handler())

	if deps.Metrics != nil {
		router.Handle(MetricsPath, deps.Metrics.Handler())
	}

	// Feature routes
	if err := statusFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := dashboardFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}

// Package status provides the live per-system status board.
package status

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/refdash/internal/ui/features/common"
)

// SetupRoutes configures routes for the status feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get(UpdatesPath, handlers.Updates)

	return nil
}

// Package common provides shared dependencies and page components for UI features.
package common

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/ui/notifier"
)

// DefaultQueryTimeout bounds the queries of one request.
const DefaultQueryTimeout = 30 * time.Second

// Deps holds what the feature handlers share.
type Deps struct {
	Repository   *reference.Repository
	Exporter     *export.Exporter
	Charts       charts.Renderer
	Sessions     sessions.Store
	Notifier     *notifier.Notifier
	Metrics      *metrics.Metrics
	QueryTimeout time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// WithDefaults fills unset optional fields.
func (d Deps) WithDefaults() Deps {
	if d.QueryTimeout <= 0 {
		d.QueryTimeout = DefaultQueryTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Exporter == nil {
		d.Exporter = &export.Exporter{Metrics: d.Metrics}
	}
	if d.Notifier == nil {
		d.Notifier = notifier.New()
	}
	return d
}

// QueryContext derives the per-request query context.
func (d Deps) QueryContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d.QueryTimeout)
}

package status

import (
	"context"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the status feature.
type Handlers struct {
	deps common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps common.Deps) *Handlers {
	return &Handlers{deps: deps.WithDefaults()}
}

// Updates is the long-lived SSE stream of the status board.
// The page renders the initial board; this only pushes changes.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(updates)

	h.deps.Metrics.SSEOpened()
	defer h.deps.Metrics.SSEClosed()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if err := h.send(ctx, sse, ev); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) send(ctx context.Context, sse *datastar.ServerSentEventGenerator, ev notifier.Event) error {
	if ev == notifier.EventReload {
		return sse.ExecuteScript("window.location.reload()")
	}

	qctx, cancel := context.WithTimeout(ctx, h.deps.QueryTimeout)
	defer cancel()
	rows, err := h.deps.Repository.Status(qctx)
	if err != nil {
		h.deps.Logger.Error("status refresh failed", "error", err)
	}
	return sse.PatchElementTempl(Board(rows, err))
}

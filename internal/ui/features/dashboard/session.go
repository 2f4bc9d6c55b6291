package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/leapstack-labs/refdash/internal/reference"
)

const (
	sessionName = "refdash"
	filterKey   = "filter"
)

// loadInput returns the selection saved in the session, or the zero input.
func (h *Handlers) loadInput(r *http.Request) reference.FilterInput {
	var in reference.FilterInput
	if h.deps.Sessions == nil {
		return in
	}
	session, err := h.deps.Sessions.Get(r, sessionName)
	if err != nil {
		return in
	}
	raw, ok := session.Values[filterKey].(string)
	if !ok {
		return in
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return reference.FilterInput{}
	}
	return in
}

// saveInput stores the selection. It must run before any response body is written.
func (h *Handlers) saveInput(w http.ResponseWriter, r *http.Request, in reference.FilterInput) {
	if h.deps.Sessions == nil {
		return
	}
	session, err := h.deps.Sessions.Get(r, sessionName)
	if err != nil && session == nil {
		return
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return
	}
	session.Values[filterKey] = string(raw)
	if err := session.Save(r, w); err != nil {
		h.deps.Logger.Warn("failed to save session", "error", err)
	}
}

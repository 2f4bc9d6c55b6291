package reference

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/refdash/pkg/core"
)

// FilterInput is the raw selection as submitted by a form, signals, or flags.
type FilterInput struct {
	System  string `json:"system"`
	Channel string `json:"channel"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Resolve turns raw input into a Filter. Empty or unparseable dates and an
// empty channel fall back to DefaultFilter(now); a channel outside
// core.Channels is rejected with core.ErrInvalidChannel. From after To is allowed.
func (in FilterInput) Resolve(now time.Time) (core.Filter, error) {
	f := core.DefaultFilter(now)
	f.System = strings.TrimSpace(in.System)

	if ch := strings.TrimSpace(in.Channel); ch != "" {
		n, err := strconv.Atoi(ch)
		if err != nil || !core.ValidChannel(n) {
			return f, fmt.Errorf("%w: %q", core.ErrInvalidChannel, ch)
		}
		f.Channel = n
	}

	if t, err := time.Parse(core.DateLayout, strings.TrimSpace(in.From)); err == nil {
		f.From = t
	}
	if t, err := time.Parse(core.DateLayout, strings.TrimSpace(in.To)); err == nil {
		f.To = t
	}
	return f, nil
}

// InputFromFilter renders a Filter back into its raw form.
func InputFromFilter(f core.Filter) FilterInput {
	return FilterInput{
		System:  f.System,
		Channel: strconv.Itoa(f.Channel),
		From:    f.From.Format(core.DateLayout),
		To:      f.To.Format(core.DateLayout),
	}
}

// DefaultSystem picks the initial system: the current one if still offered, else the first.
func DefaultSystem(current string, systems []string) string {
	for _, s := range systems {
		if s == current {
			return current
		}
	}
	if len(systems) > 0 {
		return systems[0]
	}
	return current
}

package status

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// BoardID is the element id patched by status updates.
const BoardID = "status-board"

// UpdatesPath is the SSE endpoint of the board.
const UpdatesPath = "/api/status/updates"

// Board renders the status table, or the error that prevented it.
func Board(rows []core.StatusRow, err error) templ.Component {
	if err != nil {
		return common.ErrorPanel(BoardID, "Status unavailable: "+err.Error())
	}
	return common.HTML(func(sb *strings.Builder) {
		sb.WriteString(`<div id="` + BoardID + `" class="status-board">` + "\n")
		if len(rows) == 0 {
			sb.WriteString(`<p class="summary">No systems recorded yet.</p>` + "\n")
		} else {
			data := make([][]string, 0, len(rows))
			for _, row := range rows {
				data = append(data, []string{row.System, row.Glyph()})
			}
			common.Table(sb, "status", []string{"System", "Record_Exists_Today"}, data)
		}
		sb.WriteString("</div>\n")
	})
}

// Section renders the board inside a container that subscribes to updates.
func Section(rows []core.StatusRow, loadErr error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<section data-init="@get('` + UpdatesPath + `')">` + "\n<h2>Status</h2>\n"
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := Board(rows, loadErr).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</section>\n")
		return err
	})
}

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which systems recorded a reference today",
		Long: `Show, for every system, whether a reference measurement exists for the
current date of the database.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Show today's status board
  refdash status

  # As JSON for scripts
  refdash status --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := cc.Repository.Status(commandContext(cmd))
	if err != nil {
		return err
	}

	out := statusOutput(rows, core.TruncateDay(cc.Now()))
	r := cc.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Status"))
		r.Println("")
		r.Println(output.FormatKeyValue("Date", out.Date))
		r.Println("")
		r.Table([]string{"System", "Record_Exists_Today"}, statusTable(out))
		r.Printf("**Recorded:** %d of %d\n", out.Summary.Recorded, out.Summary.Total)
	default:
		r.Header(1, "Status")
		if len(rows) == 0 {
			r.Muted("No systems recorded yet.")
			return nil
		}
		for _, s := range out.Systems {
			state := "missing"
			if s.RecordedToday {
				state = "recorded"
			}
			r.StatusLine(s.System, state, s.Indicator)
		}
		r.Println("")
		r.Muted(out.Date)
	}
	return nil
}

func statusOutput(rows []core.StatusRow, today time.Time) output.StatusOutput {
	out := output.StatusOutput{
		Date:    today.Format(core.DateLayout),
		Systems: make([]output.StatusInfo, 0, len(rows)),
	}
	for _, row := range rows {
		out.Systems = append(out.Systems, output.StatusInfo{
			System:        row.System,
			RecordedToday: row.RecordExistsToday,
			Indicator:     row.Glyph(),
		})
		if row.RecordExistsToday {
			out.Summary.Recorded++
		} else {
			out.Summary.Missing++
		}
	}
	out.Summary.Total = len(rows)
	return out
}

func statusTable(out output.StatusOutput) [][]string {
	rows := make([][]string, 0, len(out.Systems))
	for _, s := range out.Systems {
		rows = append(rows, []string{s.System, s.Indicator})
	}
	return rows
}

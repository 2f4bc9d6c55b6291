package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/internal/cli/output"
	"github.com/leapstack-labs/refdash/internal/reference"
)

// NewSystemsCommand creates the systems command.
func NewSystemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the systems that have reference measurements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			systems, err := cc.Repository.Systems(commandContext(cmd))
			if err != nil {
				return err
			}
			out := output.SystemsOutput{
				Systems: systems,
				Default: reference.DefaultSystem("", systems),
			}
			if out.Systems == nil {
				out.Systems = []string{}
			}

			r := cc.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(out)
			case output.ModeMarkdown:
				r.Println(output.FormatHeader(1, "Systems"))
				r.Println("")
				r.Println(output.FormatList(systems))
			default:
				r.Header(1, "Systems")
				if len(systems) == 0 {
					r.Muted("No systems recorded yet.")
				}
				for _, s := range systems {
					r.Println("  " + s)
				}
			}
			return nil
		},
	}
}

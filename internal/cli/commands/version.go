package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refdash/pkg/adapter"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the refdash version, the Go runtime, and the database backends compiled in.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			backends := adapter.ListAdapters()
			if len(backends) == 0 {
				backends = []string{"none"}
			}
			_, _ = fmt.Fprintf(w, "refdash v%s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintln(w, "System references dashboard for spectrometer reference measurements")
			_, _ = fmt.Fprintf(w, "Backends: %s\n", strings.Join(backends, ", "))
		},
	}
}

package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// newProgress returns a ProgressFunc that redraws a counter on a terminal,
// and a finish func that ends the line. Off a terminal both are no-ops.
func newProgress(cmd *cobra.Command, label string) (driving.ProgressFunc, func()) {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, func() {}
	}

	ticks := 0
	progress := func() {
		ticks++
		cmd.Printf("\r%s... %d batch(es) committed", label, ticks)
	}
	finish := func() {
		if ticks > 0 {
			cmd.Println()
		}
	}
	return progress, finish
}

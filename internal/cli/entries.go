package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"tutorial/internal/tutorial"
)

// newEntriesCommand lists the deprecated tutorial paths, one per line, so a
// static build can prerender their redirects.
func newEntriesCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List deprecated tutorial paths and their targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redirects := tutorial.NewRedirects(state.cfg.Redirects)
			out := cmd.OutOrStdout()
			for _, from := range redirects.Entries() {
				target, _ := redirects.Route(from)
				fmt.Fprintf(out, "%s\t%s\n", tutorial.Location(from), tutorial.Location(target))
			}
			return nil
		},
	}
}

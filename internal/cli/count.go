package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of rows in the target table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := e.store.Count(cmd.Context(), e.cfg.Table)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "%s: %d\n", e.cfg.Table, n)
			return nil
		},
	}
}

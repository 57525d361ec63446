package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPopulateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Download if needed, filter and load alternate names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := e.importer().Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Inserted %d alternate names (%d skipped, %d failed) in %s\n",
				summary.Load.Inserted, summary.Skipped, summary.Load.Failed, summary.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

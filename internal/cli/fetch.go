package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Only make sure alternateNamesV2.txt is present in DataSourcePath",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := e.importer().Fetch(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(e.stdout, path)
			return nil
		},
	}
}

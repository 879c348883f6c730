package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/quarry/internal/cli"
)

var idsFlags queryFlags

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "Print matching document ids, one per line",
	Example: `  # Ids of open tickets, newest first
  quarry ids --index tickets --where 'status=open' --sort created_at:desc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		q, err := idsFlags.build(s.client)
		if err != nil {
			return err
		}

		ids, err := q.PluckIDs(ctx)
		if err != nil {
			return cli.QueryError("fetching ids", err)
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	idsFlags.register(idsCmd)
}

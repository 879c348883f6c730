package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/quarry/internal/cli"
)

var (
	distinctFlags  queryFlags
	distinctSize   int
	distinctOutput string
)

var distinctCmd = &cobra.Command{
	Use:   "distinct FIELD",
	Short: "Print the distinct values of a field among matching documents",
	Example: `  # Statuses in use by open tickets
  quarry distinct status --index tickets --where 'created_at between 2024-01-01..'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		field := args[0]

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		q, err := distinctFlags.build(s.client)
		if err != nil {
			return err
		}

		// Only the buckets matter.
		res, err := q.Limit(0).Distinct(field, distinctSize).Search(ctx)
		if err != nil {
			return cli.QueryError("fetching distinct values", err)
		}
		return writeOutput(cmd.OutOrStdout(), distinctOutput, res.DistinctValues(field))
	},
}

func init() {
	distinctFlags.register(distinctCmd)
	distinctCmd.Flags().IntVar(&distinctSize, "size", 10, "maximum number of values")
	distinctCmd.Flags().StringVarP(&distinctOutput, "output", "o", outputJSON, "output format (json|yaml)")
}

package main

import (
	"github.com/spf13/cobra"
)

var (
	compileFlags  queryFlags
	compileOutput string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Print the search payload without running it",
	Long: `Compile filters into the payload quarry hands to Elasticsearch:
{index, type?, body, scroll?}. No cluster connection is made.`,
	Example: `  # Active tickets, or anything above priority 5
  quarry compile --index tickets --where 'status=active' --or-where 'priority>5' --limit 10

  # Date range in the configured timezone
  quarry compile --index tickets --where 'created_at between 2024-01-01..2024-01-31'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newQuarryClient(nil)
		if err != nil {
			return err
		}
		q, err := compileFlags.build(client)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), compileOutput, q.Params().Params())
	},
}

func init() {
	compileFlags.register(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", outputJSON, "output format (json|yaml)")
}


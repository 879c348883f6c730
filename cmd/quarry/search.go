package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/quarry/internal/cli"
)

var (
	searchFlags   queryFlags
	searchOutput  string
	searchPage    int
	searchPerPage int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a query and print the rows",
	Long: `Run a query and print the matching rows in hit order.

With --page or --per-page the result is a page object carrying total,
per_page, current_page and last_page. When a retriever database is
configured, only ids are fetched from Elasticsearch and the rows are loaded
from PostgreSQL.`,
	Example: `  # Open tickets mentioning "printer"
  quarry search --index tickets --where 'status=open' --where 'subject like printer'

  # Third page of 20, newest first, as YAML
  quarry search --index tickets --sort created_at:desc --page 3 --per-page 20 -o yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		if err := s.openRetriever(ctx); err != nil {
			return err
		}

		q, err := searchFlags.build(s.client)
		if err != nil {
			return err
		}
		if r := s.retriever(); r != nil {
			q.Retriever(r)
		}

		if cmd.Flags().Changed("page") || cmd.Flags().Changed("per-page") {
			page, err := q.Paginate(ctx, searchPerPage, searchPage)
			if err != nil {
				return cli.QueryError("search", err)
			}
			return writeOutput(cmd.OutOrStdout(), searchOutput, page)
		}

		rows, err := q.Get(ctx)
		if err != nil {
			return cli.QueryError("search", err)
		}
		return writeOutput(cmd.OutOrStdout(), searchOutput, rows)
	},
}

func init() {
	searchFlags.register(searchCmd)
	flags := searchCmd.Flags()
	flags.StringVarP(&searchOutput, "output", "o", outputJSON, "output format (json|yaml)")
	flags.IntVar(&searchPage, "page", 1, "page number, starting at 1")
	flags.IntVar(&searchPerPage, "per-page", 20, "rows per page")
}

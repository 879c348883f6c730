package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/quarry/internal/cli"
	"github.com/pthm/quarry/internal/doctor"
	"github.com/pthm/quarry/pkg/sqlretriever"
)

var doctorIndex string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks",
	Long: `Check that Elasticsearch is reachable, the index exists with the result
window quarry expects, and the retriever table has the selected columns.`,
	Example: `  # Run health checks
  quarry doctor

  # Run with verbose output
  quarry doctor --index tickets -v`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		es, err := newTransport()
		if err != nil {
			return err
		}

		// The doctor pings the database itself so an unreachable one is
		// reported rather than aborting the run.
		var db doctor.Database
		if cfg.RetrieverEnabled() {
			dsn, err := cfg.DSN()
			if err != nil {
				return cli.ConfigError("building retriever DSN", err)
			}
			sqlDB, err := sql.Open(cfg.Retriever.Driver, dsn)
			if err != nil {
				return cli.ConnectError("opening retriever database", err)
			}
			defer func() { _ = sqlDB.Close() }()
			db = sqlDB
		}

		if !quiet {
			fmt.Fprintln(w, "quarry doctor - Health Check")
		}

		d := doctor.New(es, db, doctor.Config{
			ConfigPath:      configPath,
			Index:           resolveString(doctorIndex, cfg.Index),
			MaxResultWindow: cfg.MaxResultWindow,
			Retriever: sqlretriever.Config{
				Schema:  cfg.Retriever.Schema,
				Table:   cfg.Retriever.Table,
				Key:     cfg.Retriever.Key,
				Columns: cfg.Retriever.Columns,
			},
		})
		report, err := d.Run(ctx)
		if err != nil {
			return cli.GeneralError("running doctor", err)
		}

		report.Print(w, verbose > 0)

		if report.HasErrors() {
			return cli.GeneralError("health checks failed", nil)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorIndex, "index", "", "index to check (default: index from config)")
}

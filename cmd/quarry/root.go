package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pthm/quarry/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	shutdownTracing func(context.Context) error

	// Persistent flags
	cfgFile   string
	verbose   int
	quiet     bool
	traceCall bool
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Elasticsearch query compiler",
	Long: `quarry - Elasticsearch query compiler

Quarry compiles relational filters into Elasticsearch bool queries, runs them,
and turns the hits into rows. Rows can be loaded from PostgreSQL by hit id
when a retriever database is configured.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		if err := cfg.Validate(); err != nil {
			return cli.ConfigError("invalid configuration", err)
		}

		logger, err = cli.NewLogger(cmd.ErrOrStderr(), cfg.Log, verbose, quiet)
		if err != nil {
			return cli.ConfigError("configuring logger", err)
		}

		if traceCall {
			shutdownTracing, err = setupTracing(cmd.ErrOrStderr())
			if err != nil {
				return cli.GeneralError("configuring tracing", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(cmd.Context())
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupQuery   = "query"
	groupUtility = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover quarry.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&traceCall, "trace", false, "print OpenTelemetry spans for cluster calls to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupQuery, Title: "Query:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	// Query commands
	for _, c := range []*cobra.Command{compileCmd, searchCmd, scrollCmd, idsCmd, distinctCmd} {
		c.GroupID = groupQuery
		rootCmd.AddCommand(c)
	}

	// Utility commands
	configCmd.GroupID = groupUtility
	doctorCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

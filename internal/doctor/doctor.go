// Package doctor provides health checks for a quarry setup.
//
// The doctor command validates that the cluster is reachable, the default
// index exists with the result window the config expects, and the retriever
// table (when configured) has the columns the loader selects.
//
// Example usage:
//
//	d := doctor.New(es, db, doctor.Config{Index: "tickets", MaxResultWindow: 10000})
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/pthm/quarry/internal/sqldsl"
	"github.com/pthm/quarry/pkg/sqlretriever"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause failures.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "cluster", "index", "retriever").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer.
func (r *Report) Print(w io.Writer, verbose bool) {
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Cluster is the part of the Elasticsearch transport the checks use.
// Implemented by *esclient.Client.
type Cluster interface {
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, index string) (bool, error)
	MaxResultWindow(ctx context.Context, index string) (int, error)
}

// Database is the part of *sql.DB the retriever checks use.
type Database interface {
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Config is what the checks compare the live systems against.
type Config struct {
	// ConfigPath is the config file in use, empty for defaults.
	ConfigPath string

	Index           string
	MaxResultWindow int

	// Retriever is only checked when a Database is given.
	Retriever sqlretriever.Config
}

// Doctor performs health checks on a quarry setup.
type Doctor struct {
	cluster Cluster
	db      Database
	cfg     Config
}

// New creates a new Doctor instance. db may be nil when no retriever is
// configured.
func New(cluster Cluster, db Database, cfg Config) *Doctor {
	return &Doctor{
		cluster: cluster,
		db:      db,
		cfg:     cfg,
	}
}

// Run executes all health checks and returns a report. Unreachable systems
// are reported as failed checks; only unexpected query errors are returned.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	d.checkConfig(report)
	if d.checkCluster(ctx, report) {
		if err := d.checkIndex(ctx, report); err != nil {
			return nil, fmt.Errorf("checking index: %w", err)
		}
	}
	if err := d.checkRetriever(ctx, report); err != nil {
		return nil, fmt.Errorf("checking retriever: %w", err)
	}

	return report, nil
}

func (d *Doctor) checkConfig(report *Report) {
	if d.cfg.ConfigPath == "" {
		report.AddCheck(CheckResult{
			Category: "Config",
			Name:     "file",
			Status:   StatusWarn,
			Message:  "No quarry.yaml found, using defaults",
			FixHint:  "create quarry.yaml or pass --config",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Config",
		Name:     "file",
		Status:   StatusPass,
		Message:  "Loaded " + d.cfg.ConfigPath,
	})
}

// checkCluster reports whether the cluster answered.
func (d *Doctor) checkCluster(ctx context.Context, report *Report) bool {
	if err := d.cluster.Ping(ctx); err != nil {
		report.AddCheck(CheckResult{
			Category: "Cluster",
			Name:     "ping",
			Status:   StatusFail,
			Message:  "Elasticsearch is not reachable",
			Details:  err.Error(),
			FixHint:  "check elasticsearch.addresses and credentials",
		})
		return false
	}
	report.AddCheck(CheckResult{
		Category: "Cluster",
		Name:     "ping",
		Status:   StatusPass,
		Message:  "Elasticsearch is reachable",
	})
	return true
}

func (d *Doctor) checkIndex(ctx context.Context, report *Report) error {
	index := d.cfg.Index
	if index == "" {
		report.AddCheck(CheckResult{
			Category: "Index",
			Name:     "default",
			Status:   StatusWarn,
			Message:  "No default index configured",
			FixHint:  "set index in quarry.yaml or pass --index to every command",
		})
		return nil
	}

	exists, err := d.cluster.IndexExists(ctx, index)
	if err != nil {
		return err
	}
	if !exists {
		report.AddCheck(CheckResult{
			Category: "Index",
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Index %q does not exist", index),
			FixHint:  "create the index or fix the index setting",
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Index",
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Index %q exists", index),
	})

	window, err := d.cluster.MaxResultWindow(ctx, index)
	if err != nil {
		return err
	}
	want := d.cfg.MaxResultWindow
	details := fmt.Sprintf("index.max_result_window: %d\nmax_result_window (config): %d", window, want)

	switch {
	case want > window:
		report.AddCheck(CheckResult{
			Category: "Index",
			Name:     "max_result_window",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Config allows pages up to %d hits but the index rejects past %d", want, window),
			Details:  details,
			FixHint:  fmt.Sprintf("set max_result_window to %d", window),
		})
	case want < window:
		report.AddCheck(CheckResult{
			Category: "Index",
			Name:     "max_result_window",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("Last page is capped at %d hits though the index allows %d", want, window),
			Details:  details,
			FixHint:  fmt.Sprintf("set max_result_window to %d", window),
		})
	default:
		report.AddCheck(CheckResult{
			Category: "Index",
			Name:     "max_result_window",
			Status:   StatusPass,
			Message:  fmt.Sprintf("Result window matches the index (%d)", window),
			Details:  details,
		})
	}
	return nil
}

func (d *Doctor) checkRetriever(ctx context.Context, report *Report) error {
	if d.db == nil {
		report.AddCheck(CheckResult{
			Category: "Retriever",
			Name:     "configured",
			Status:   StatusPass,
			Message:  "Not configured, rows come from the search hits",
		})
		return nil
	}

	if err := d.db.PingContext(ctx); err != nil {
		report.AddCheck(CheckResult{
			Category: "Retriever",
			Name:     "ping",
			Status:   StatusFail,
			Message:  "Retriever database is not reachable",
			Details:  err.Error(),
			FixHint:  "check retriever.database settings",
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Retriever",
		Name:     "ping",
		Status:   StatusPass,
		Message:  "Retriever database is reachable",
	})

	rc := d.cfg.Retriever
	columns, err := d.tableColumns(ctx, rc.Schema, rc.Table)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		report.AddCheck(CheckResult{
			Category: "Retriever",
			Name:     "table",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Table %q not found", qualified(rc.Schema, rc.Table)),
			FixHint:  "fix retriever.schema and retriever.table",
		})
		return nil
	}

	key := rc.Key
	if key == "" {
		key = "id"
	}
	var missing []string
	for _, col := range append([]string{key}, rc.Columns...) {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		report.AddCheck(CheckResult{
			Category: "Retriever",
			Name:     "columns",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Table %q is missing columns: %s", qualified(rc.Schema, rc.Table), strings.Join(missing, ", ")),
			FixHint:  "fix retriever.key and retriever.columns",
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Retriever",
		Name:     "columns",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Table %q has the selected columns", qualified(rc.Schema, rc.Table)),
	})
	return nil
}

// tableColumns returns the column names of schema.table, or an empty set
// when the table does not exist. An empty schema means current_schema().
func (d *Doctor) tableColumns(ctx context.Context, schema, table string) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, columnsQuery, table, schema)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// columnsQuery lists a table's columns. $1 is the table, $2 the schema.
var columnsQuery = sqldsl.SelectStmt{
	Columns: []sqldsl.Expr{sqldsl.Ident("column_name")},
	From:    sqldsl.TableName{Schema: "information_schema", Name: "columns"},
	Where: sqldsl.And(
		sqldsl.Eq{Left: sqldsl.Ident("table_name"), Right: sqldsl.Param(1)},
		sqldsl.Eq{Left: sqldsl.Ident("table_schema"), Right: sqldsl.Func{Name: "COALESCE", Args: []sqldsl.Expr{
			sqldsl.Func{Name: "NULLIF", Args: []sqldsl.Expr{sqldsl.Param(2), sqldsl.Lit("")}},
			sqldsl.Func{Name: "current_schema"},
		}}},
	),
}.SQL()

func qualified(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}

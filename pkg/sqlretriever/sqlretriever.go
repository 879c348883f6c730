// Package sqlretriever loads full records for search hits from PostgreSQL.
//
// Elasticsearch then serves only as an index: the query finds matching ids
// in relevance order and the rows come from the system of record.
//
//	r, err := sqlretriever.New(db, sqlretriever.Config{Table: "tickets"})
//	rows, err := client.Query("tickets").
//	    WhereContains("title", "disk").
//	    Retriever(r.Retriever()).
//	    Get(ctx)
package sqlretriever

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/sqldsl"
)

// Querier executes queries against PostgreSQL.
// Implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Config names the table that holds the records.
type Config struct {
	Schema string
	Table  string
	// Key is the column matched against the document ids. Defaults to "id".
	Key string
	// Columns limits the selected columns. Empty selects all of them.
	Columns []string
}

// Loader fetches rows by id, preserving the order of the ids it is given.
type Loader struct {
	db    Querier
	query string
}

const rowAlias = "r"

// New validates cfg and prepares the lookup statement.
func New(db Querier, cfg Config) (*Loader, error) {
	if cfg.Key == "" {
		cfg.Key = "id"
	}

	names := append([]string{cfg.Table, cfg.Key}, cfg.Columns...)
	if cfg.Schema != "" {
		names = append(names, cfg.Schema)
	}
	for _, name := range names {
		if !sqldsl.ValidIdent(name) {
			return nil, fmt.Errorf("sqlretriever: invalid identifier %q", name)
		}
	}

	return &Loader{db: db, query: buildQuery(cfg)}, nil
}

// buildQuery renders
//
//	SELECT ... FROM table AS r
//	WHERE r.key::text = ANY($1::text[])
//	ORDER BY array_position($1::text[], r.key::text)
func buildQuery(cfg Config) string {
	ids := sqldsl.Cast{Expr: sqldsl.Param(1), Type: "text[]"}
	key := sqldsl.Cast{Expr: sqldsl.Col{Table: rowAlias, Column: cfg.Key}, Type: "text"}

	var columns []sqldsl.Expr
	for _, c := range cfg.Columns {
		columns = append(columns, sqldsl.Col{Table: rowAlias, Column: c})
	}

	return sqldsl.SelectStmt{
		Columns: columns,
		From:    sqldsl.TableName{Schema: cfg.Schema, Name: cfg.Table},
		Alias:   rowAlias,
		Where:   sqldsl.AnyOf{Expr: key, Array: ids},
		OrderBy: []sqldsl.OrderBy{{Expr: sqldsl.Func{Name: "array_position", Args: []sqldsl.Expr{ids, key}}}},
	}.SQL()
}

// SQL returns the lookup statement.
func (l *Loader) SQL() string {
	return l.query
}

// Load returns one row per id found, keyed by column name, in id order.
// Ids with no matching row are skipped.
func (l *Loader) Load(ctx context.Context, ids []string) ([]map[string]any, error) {
	if len(ids) == 0 {
		return []map[string]any{}, nil
	}

	rows, err := l.db.QueryContext(ctx, l.query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("loading %d rows: %w", len(ids), err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	out := make([]map[string]any, 0, len(ids))
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Retriever adapts Load for Query.Retriever.
func (l *Loader) Retriever() quarry.Retriever {
	return quarry.Retrieve(l.Load)
}

// normalize turns driver byte slices (text columns under lib/pq) into
// strings so rows encode cleanly.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

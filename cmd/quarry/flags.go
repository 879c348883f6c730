package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/cli"
)

// queryFlags are shared by every command that builds a query.
type queryFlags struct {
	index   string
	typ     string
	where   []string
	orWhere []string
	fields  []string
	sort    []string
	limit   int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.index, "index", "", "index to search (default: index from config)")
	flags.StringVar(&f.typ, "type", "", "mapping type for clusters that still use them")
	flags.StringArrayVar(&f.where, "where", nil, `filter "field OP value" (repeatable)`)
	flags.StringArrayVar(&f.orWhere, "or-where", nil, `should filter "field OP value" (repeatable)`)
	flags.StringSliceVar(&f.fields, "select", nil, "stored fields to return")
	flags.StringArrayVar(&f.sort, "sort", nil, "sort by field[:asc|desc] (repeatable)")
	flags.IntVar(&f.limit, "limit", 0, "maximum number of hits (default: default_size from config)")
}

// build compiles the flags into a query on client.
func (f *queryFlags) build(client *quarry.Client) (*quarry.Query, error) {
	index := resolveString(f.index, cfg.Index)
	if index == "" {
		return nil, cli.ConfigError("no index", fmt.Errorf("pass --index or set index in quarry.yaml"))
	}

	q := client.Query(index)
	if f.typ != "" {
		q.SetType(f.typ)
	}
	if err := cli.ApplyFilters(q, f.where, f.orWhere); err != nil {
		return nil, cli.QueryError("parsing filters", err)
	}
	if len(f.fields) > 0 {
		q.Select(f.fields...)
	}
	for _, s := range f.sort {
		field, order, err := parseSort(s)
		if err != nil {
			return nil, cli.QueryError("parsing --sort", err)
		}
		q.OrderBy(field, order)
	}
	if f.limit > 0 {
		q.Limit(f.limit)
	}
	return q, nil
}

// parseSort parses "field", "field:asc" or "field:desc".
func parseSort(s string) (string, quarry.SortOrder, error) {
	field, dir, _ := strings.Cut(s, ":")
	if field == "" {
		return "", "", fmt.Errorf("sort %q: missing field", s)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return field, quarry.Asc, nil
	case "desc":
		return field, quarry.Desc, nil
	default:
		return "", "", fmt.Errorf("sort %q: direction must be asc or desc", s)
	}
}

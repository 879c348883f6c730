// Package main provides a CLI for compiling and running quarry queries
// against Elasticsearch.
//
// The CLI supports:
//   - compile: Print the search payload for a set of filters
//   - search: Run a query and print the rows, optionally paginated
//   - scroll: Drain a query through a scroll cursor
//   - ids: Print matching document ids
//   - distinct: Print the distinct values of a field
//
// Filters are written as "field OP value", for example:
//
//	quarry search --index tickets --where 'status=open' --where 'created_at between 2024-01-01..'
//
// Connection settings come from quarry.yaml, QUARRY_* environment
// variables, or flags.
package main

func main() {
	Execute()
}

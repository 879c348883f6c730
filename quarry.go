// Package quarry compiles relational-style filters into Elasticsearch boolean
// queries, executes them, and reshapes the raw response into rows.
//
// # Core Concepts
//
// A Client binds a Transport (the thing that talks to the cluster) to
// configuration such as the result-window ceiling and the time zone used for
// date ranges. Each call to Client.Query returns a fresh, single-owner Query:
//
//	client := quarry.NewClient(transport)
//	rows, err := client.Query("tickets").
//	    Where("status", "=", "active").
//	    OrWhere("priority", ">", 5).
//	    Limit(10).
//	    Get(ctx)
//
// Every Where call adds exactly one predicate group to the compiled bool
// query. OrWhere variants place the group under "should", which follows the
// engine's native semantics: should clauses are optional scorers when any
// must clause is present and act as a disjunction only when none is.
//
// # Sub-queries
//
//	q.WhereSub(func(sub *quarry.Query) {
//	    sub.OrWhereEquals("owner", "alice").OrWhereEquals("owner", "bob")
//	})
//
// Only the sub-query's clause tree is lifted into the parent. Sort, paging
// and projection set on the sub-query are discarded.
//
// # Results
//
// Get returns rows, Paginate wraps them in a Paginator whose last page is
// capped by the index's max_result_window, Scroll/ContinueScroll walk large
// result sets, and PluckIDs returns hit ids only.
//
// # Retriever Indirection
//
// With a Retriever registered, the cluster is used only to find matching ids
// in order. Rows are then loaded from a system of record:
//
//	q.Retriever(func(ctx context.Context, ids []string) (any, error) {
//	    return repo.FindByIDs(ctx, ids)
//	})
//
// # Errors
//
// Builder methods never panic. The first invalid call (for example an
// unsupported operator) is recorded on the Query, adds nothing to the tree,
// and is returned by Err and by every execution method.
package quarry

import (
	"context"

	"github.com/pthm/quarry/internal/esdsl"
)

// Combinator selects the bool query list a predicate group is placed in.
type Combinator = esdsl.Combinator

// Combinators.
const (
	Must    = esdsl.Must
	MustNot = esdsl.MustNot
	Should  = esdsl.Should
	Filter  = esdsl.Filter
)

// SortOrder is a sort direction.
type SortOrder = esdsl.SortOrder

// Sort directions.
const (
	Asc  = esdsl.Asc
	Desc = esdsl.Desc
)

// Defaults applied when callers do not say otherwise.
const (
	DefaultSize            = 100
	DefaultScrollSize      = 1000
	DefaultScroll          = "5m"
	DefaultMaxResultWindow = 10000
	// MaxWildcardLength caps wildcard patterns; longer patterns make the
	// engine scan far more terms than any realistic filter needs.
	MaxWildcardLength = 50
)

// Request is the payload handed to a Transport for a search call.
type Request struct {
	Index  string
	Type   string
	Body   map[string]any
	Scroll string
}

// Params renders the request as {index, type?, body, scroll?}.
func (r Request) Params() map[string]any {
	params := map[string]any{
		"index": r.Index,
		"body":  r.Body,
	}
	if r.Type != "" {
		params["type"] = r.Type
	}
	if r.Scroll != "" {
		params["scroll"] = r.Scroll
	}
	return params
}

// ScrollRequest continues a scroll cursor.
// KeepAlive is optional; when empty the engine keeps its current setting.
type ScrollRequest struct {
	ScrollID  string
	KeepAlive string
}

// Transport executes requests against the search cluster.
// Implementations own connection handling, timeouts and retries; quarry
// treats every returned error as fatal to the operation in flight.
type Transport interface {
	Search(ctx context.Context, req Request) (Response, error)
	Scroll(ctx context.Context, req ScrollRequest) (Response, error)
}

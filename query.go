package quarry

import (
	"github.com/pthm/quarry/internal/esdsl"
)

// Query is a fluent builder for one search request and the operations that
// execute it.
//
// A Query is owned by a single caller and is not safe for concurrent use.
// Its clause tree only grows: every Where call appends a new group and
// nothing rewrites a group once added.
type Query struct {
	client          *Client
	search          *esdsl.Search
	index           string
	typ             string
	scroll          string
	maxResultWindow int
	retriever       Retriever
	afterSearch     func(rows *[]any)
	err             error
}

func newQuery(c *Client) *Query {
	if c == nil {
		c = NewClient(nil)
	}
	s := esdsl.NewSearch()
	s.SetSize(c.defaultSize)
	return &Query{
		client:          c,
		search:          s,
		maxResultWindow: c.maxResultWindow,
	}
}

// fail records the first error. Later errors are dropped so the caller sees
// the call that broke the chain.
func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Err returns the first error recorded by a builder method.
func (q *Query) Err() error {
	return q.err
}

// Index returns the target index.
func (q *Query) Index() string {
	return q.index
}

// SetType sets the mapping type. Only clusters that still have mapping types
// use it.
func (q *Query) SetType(typ string) *Query {
	q.typ = typ
	return q
}

// SetMaxResultWindow overrides the client's result-window ceiling for this
// query.
func (q *Query) SetMaxResultWindow(n int) *Query {
	if n > 0 {
		q.maxResultWindow = n
	}
	return q
}

// MaxResultWindow returns the result-window ceiling used by Paginate.
func (q *Query) MaxResultWindow() int {
	return q.maxResultWindow
}

// Select restricts hits to the given stored fields. Without Select the whole
// document (_source) is returned; Select with no fields clears an earlier
// projection. Use PluckIDs for id-only hits.
func (q *Query) Select(fields ...string) *Query {
	if len(fields) == 0 {
		q.search.ClearStoredFields()
		return q
	}
	q.search.SetStoredFields(fields)
	return q
}

// Limit sets the number of hits to return.
func (q *Query) Limit(n int) *Query {
	q.search.SetSize(n)
	return q
}

// SetPaginate sets size to perPage and from to the offset of currentPage.
func (q *Query) SetPaginate(perPage, currentPage int) *Query {
	if currentPage < 1 {
		currentPage = 1
	}
	q.search.SetSize(perPage)
	q.search.SetFrom((currentPage - 1) * perPage)
	return q
}

// OrderBy appends a sort on field.
func (q *Query) OrderBy(field string, order SortOrder) *Query {
	q.search.AddSort(esdsl.FieldSort{Field: field, Order: order})
	return q
}

// OrderByDesc appends a descending sort on field.
func (q *Query) OrderByDesc(field string) *Query {
	return q.OrderBy(field, Desc)
}

// Retriever registers r. Get and Paginate will then fetch only ids from the
// cluster and load rows through r.
func (q *Query) Retriever(r Retriever) *Query {
	q.retriever = r
	return q
}

// AfterSearch registers a hook that receives the materialized rows before
// they are returned. The hook may replace or edit the slice in place.
func (q *Query) AfterSearch(fn func(rows *[]any)) *Query {
	q.afterSearch = fn
	return q
}

func (q *Query) callAfterSearch(rows *[]any) {
	if q.afterSearch != nil {
		q.afterSearch(rows)
	}
}

// ToMap renders the request body.
func (q *Query) ToMap() map[string]any {
	return q.search.Source()
}

// Params returns the request that would be sent to the transport.
func (q *Query) Params() Request {
	return Request{
		Index:  q.index,
		Type:   q.typ,
		Body:   q.search.Source(),
		Scroll: q.scroll,
	}
}

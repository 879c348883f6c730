package quarry

import (
	"context"
	"fmt"
)

// RawResult executes the query and returns the raw response. When fields
// are given they replace the stored-field projection first. Every other
// execution method is built on it.
func (q *Query) RawResult(ctx context.Context, fields ...string) (Response, error) {
	if len(fields) > 0 {
		q.search.SetStoredFields(fields)
	}
	return q.execute(ctx)
}

func (q *Query) execute(ctx context.Context) (Response, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.client.transport == nil {
		return nil, ErrNoTransport
	}

	req := q.Params()
	size, _ := q.search.Size()
	from, _ := q.search.From()
	q.client.logger.DebugContext(ctx, "search",
		"index", req.Index,
		"size", size,
		"from", from,
		"scroll", req.Scroll,
	)

	resp, err := q.client.tracer.Trace(ctx, Call{Op: "search", Index: req.Index}, func(ctx context.Context) (Response, error) {
		return q.client.transport.Search(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %w", req.Index, ErrTransport, err)
	}

	q.client.logger.DebugContext(ctx, "search done",
		"index", req.Index,
		"hits", len(resp.Hits()),
		"total", resp.Total(),
	)
	return resp, nil
}

// Get executes the query and returns the rows in hit order.
//
// With a Retriever registered only ids are fetched from the cluster and the
// rows come from the retriever. The AfterSearch hook, if any, runs last.
func (q *Query) Get(ctx context.Context, fields ...string) ([]any, error) {
	var rows []any
	if q.retriever != nil {
		ids, err := q.PluckIDs(ctx)
		if err != nil {
			return nil, err
		}
		rows, err = callRetriever(ctx, q.retriever, ids)
		if err != nil {
			return nil, err
		}
	} else {
		resp, err := q.RawResult(ctx, fields...)
		if err != nil {
			return nil, err
		}
		rows = materializeHits(resp.Hits())
	}

	q.callAfterSearch(&rows)
	return rows, nil
}

// Scroll opens a scroll cursor and returns its first page. An empty
// keepAlive defaults to DefaultScroll and a size below 1 to
// DefaultScrollSize.
func (q *Query) Scroll(ctx context.Context, keepAlive string, size int, fields ...string) (*ScrollResult, error) {
	if keepAlive == "" {
		keepAlive = DefaultScroll
	}
	if size < 1 {
		size = DefaultScrollSize
	}
	q.scroll = keepAlive
	q.search.SetSize(size)

	resp, err := q.RawResult(ctx, fields...)
	if err != nil {
		return nil, err
	}
	return toScrollResult(resp), nil
}

// ContinueScroll fetches the page after scrollID. The compiled query is not
// sent; the cursor carries it. An empty scrollID means the scroll is already
// exhausted and yields an empty result without calling the cluster.
func (q *Query) ContinueScroll(ctx context.Context, scrollID string) (*ScrollResult, error) {
	if scrollID == "" {
		return &ScrollResult{Items: []any{}}, nil
	}
	if q.client.transport == nil {
		return nil, ErrNoTransport
	}

	req := ScrollRequest{ScrollID: scrollID, KeepAlive: q.scroll}
	q.client.logger.DebugContext(ctx, "scroll", "index", q.index, "keep_alive", req.KeepAlive)

	resp, err := q.client.tracer.Trace(ctx, Call{Op: "scroll", Index: q.index}, func(ctx context.Context) (Response, error) {
		return q.client.transport.Scroll(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("scroll %s: %w: %w", q.index, ErrTransport, err)
	}
	return toScrollResult(resp), nil
}

// Paginate fetches page currentPage of perPage rows. LastPage on the
// returned Paginator never points past the query's max result window.
func (q *Query) Paginate(ctx context.Context, perPage, currentPage int, fields ...string) (*Paginator, error) {
	if perPage < 1 {
		return nil, fmt.Errorf("%w: perPage must be positive, got %d", ErrInvalidValue, perPage)
	}
	if currentPage < 1 {
		currentPage = 1
	}
	q.SetPaginate(perPage, currentPage)

	var (
		rows []any
		resp Response
		err  error
	)
	if q.retriever != nil {
		q.search.SetStoredFields([]string{})
		resp, err = q.execute(ctx)
		if err != nil {
			return nil, err
		}
		rows, err = callRetriever(ctx, q.retriever, hitIDs(resp.Hits()))
		if err != nil {
			return nil, err
		}
	} else {
		resp, err = q.RawResult(ctx, fields...)
		if err != nil {
			return nil, err
		}
		rows = materializeHits(resp.Hits())
	}
	q.callAfterSearch(&rows)

	total := resp.Total()
	p := NewPaginator(rows, total, perPage, currentPage)
	p.SetLastPage(lastPageFor(total, perPage, q.maxResultWindow))
	return p, nil
}

// PluckIDs executes the query with an empty stored-field projection and
// returns the hit ids in response order. Any earlier Select is overridden.
func (q *Query) PluckIDs(ctx context.Context) ([]string, error) {
	q.search.SetStoredFields([]string{})
	resp, err := q.execute(ctx)
	if err != nil {
		return nil, err
	}
	return hitIDs(resp.Hits()), nil
}

// Search executes the query and wraps the raw response, giving access to
// aggregations alongside hits.
func (q *Query) Search(ctx context.Context) (*SearchResult, error) {
	resp, err := q.execute(ctx)
	if err != nil {
		return nil, err
	}
	return NewSearchResult(resp), nil
}

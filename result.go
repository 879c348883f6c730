package quarry

import (
	"strings"
)

// Response is a raw search or scroll response as decoded from JSON.
// Accessors tolerate missing keys and return zero values.
type Response map[string]any

// Hits returns hits.hits in response order.
func (r Response) Hits() []map[string]any {
	raw, _ := r.Get("hits.hits", nil).([]any)
	hits := make([]map[string]any, 0, len(raw))
	for _, h := range raw {
		if hit, ok := h.(map[string]any); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// Total returns hits.total.value, or 0 when absent. The legacy numeric
// hits.total form is also understood.
func (r Response) Total() int {
	if v, ok := toInt(r.Get("hits.total.value", nil)); ok {
		return v
	}
	if v, ok := toInt(r.Get("hits.total", nil)); ok {
		return v
	}
	return 0
}

// ScrollID returns _scroll_id, or "" when the engine did not return one.
func (r Response) ScrollID() string {
	id, _ := r["_scroll_id"].(string)
	return id
}

// Aggregations returns the aggregations object, or nil.
func (r Response) Aggregations() map[string]any {
	aggs, _ := r["aggregations"].(map[string]any)
	return aggs
}

// Get looks up a dot-separated path ("hits.total.value") and returns def
// when any segment is missing.
func (r Response) Get(path string, def any) any {
	var cur any = map[string]any(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = m[key]
		if !ok {
			return def
		}
	}
	return cur
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case interface{ Int64() (int64, error) }: // json.Number
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// SearchResult wraps a raw response returned by Query.Search.
// Use it when the caller needs aggregations alongside hits.
type SearchResult struct {
	raw Response
}

// NewSearchResult wraps raw.
func NewSearchResult(raw Response) *SearchResult {
	return &SearchResult{raw: raw}
}

// Get looks up a dot-separated path in the raw response.
func (s *SearchResult) Get(path string, def any) any {
	return s.raw.Get(path, def)
}

// Hits returns hits.hits.
func (s *SearchResult) Hits() []map[string]any {
	return s.raw.Hits()
}

// Total returns hits.total.value.
func (s *SearchResult) Total() int {
	return s.raw.Total()
}

// Rows materializes the hits.
func (s *SearchResult) Rows() []any {
	return materializeHits(s.raw.Hits())
}

// DistinctValues returns the bucket keys of the terms aggregation named
// field, in the order the engine returned them.
func (s *SearchResult) DistinctValues(field string) []any {
	return distinctValues(s.raw, field)
}

// Raw returns the underlying response.
func (s *SearchResult) Raw() Response {
	return s.raw
}

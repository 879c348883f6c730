package testutil

import (
	"github.com/pthm/quarry"
)

// Hit is one search hit for a scripted response.
type Hit struct {
	ID     string
	Source map[string]any
	Fields map[string]any
}

func (h Hit) raw() map[string]any {
	hit := map[string]any{"_id": h.ID}
	if h.Source != nil {
		hit["_source"] = h.Source
	}
	if h.Fields != nil {
		hit["fields"] = h.Fields
	}
	return hit
}

// SearchResponse builds a response shaped like the engine's, with total in
// the hits.total.value form.
func SearchResponse(total int, hits ...Hit) quarry.Response {
	raw := make([]any, len(hits))
	for i, h := range hits {
		raw[i] = h.raw()
	}
	return quarry.Response{
		"took":      1,
		"timed_out": false,
		"hits": map[string]any{
			"total":     map[string]any{"value": float64(total), "relation": "eq"},
			"max_score": 1.0,
			"hits":      raw,
		},
	}
}

// ScrollResponse builds a response carrying a scroll id.
func ScrollResponse(scrollID string, hits ...Hit) quarry.Response {
	resp := SearchResponse(len(hits), hits...)
	if scrollID != "" {
		resp["_scroll_id"] = scrollID
	}
	return resp
}

// IDHits builds id-only hits, as returned for an empty stored-field
// projection.
func IDHits(ids ...string) []Hit {
	hits := make([]Hit, len(ids))
	for i, id := range ids {
		hits[i] = Hit{ID: id}
	}
	return hits
}

// TermsResponse builds a response carrying a terms aggregation named name.
func TermsResponse(name string, keys ...any) quarry.Response {
	buckets := make([]any, len(keys))
	for i, k := range keys {
		buckets[i] = map[string]any{"key": k, "doc_count": float64(len(keys) - i)}
	}
	resp := SearchResponse(0)
	resp["aggregations"] = map[string]any{
		name: map[string]any{
			"doc_count_error_upper_bound": float64(0),
			"sum_other_doc_count":         float64(0),
			"buckets":                     buckets,
		},
	}
	return resp
}

package quarry

// ScrollResult is one page of a scroll. An empty ScrollID or empty Items
// means the scroll is exhausted.
type ScrollResult struct {
	ScrollID string
	Items    []any
}

// Done reports whether the scroll has no more pages.
func (s *ScrollResult) Done() bool {
	return s.ScrollID == "" || len(s.Items) == 0
}

// materializeHits converts hits into rows, preserving order.
//
// A hit carrying _source projects it verbatim. Otherwise the hit was fetched
// with a stored-field projection and the row holds the first value of each
// returned field. Stored fields are always arrays in the response.
func materializeHits(hits []map[string]any) []any {
	rows := make([]any, 0, len(hits))
	for _, hit := range hits {
		if source, ok := hit["_source"]; ok && source != nil {
			rows = append(rows, source)
			continue
		}

		row := make(map[string]any)
		fields, _ := hit["fields"].(map[string]any)
		for name, raw := range fields {
			row[name] = firstValue(raw)
		}
		rows = append(rows, row)
	}
	return rows
}

func firstValue(raw any) any {
	values, ok := raw.([]any)
	if !ok {
		return raw
	}
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// hitIDs returns _id of every hit in response order.
func hitIDs(hits []map[string]any) []string {
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		if id, ok := hit["_id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func toScrollResult(resp Response) *ScrollResult {
	return &ScrollResult{
		ScrollID: resp.ScrollID(),
		Items:    materializeHits(resp.Hits()),
	}
}

// distinctValues returns the bucket keys of a terms aggregation.
func distinctValues(resp Response, name string) []any {
	agg, _ := resp.Aggregations()[name].(map[string]any)
	buckets, _ := agg["buckets"].([]any)

	values := make([]any, 0, len(buckets))
	for _, b := range buckets {
		bucket, ok := b.(map[string]any)
		if !ok {
			continue
		}
		values = append(values, bucket["key"])
	}
	return values
}

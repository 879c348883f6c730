package esdsl

// SortOrder is a sort direction.
type SortOrder string

// Sort directions.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// FieldSort orders hits by a single field.
type FieldSort struct {
	Field string
	Order SortOrder
}

// Source renders {field: {"order": order}}.
func (s FieldSort) Source() map[string]any {
	order := s.Order
	if order == "" {
		order = Asc
	}
	return map[string]any{s.Field: map[string]any{"order": string(order)}}
}

// TermsAggregation buckets hits by the distinct values of Field.
type TermsAggregation struct {
	Name  string
	Field string
	Size  int
}

// Source renders {"terms": {"field": field, "size": size}}.
func (a TermsAggregation) Source() map[string]any {
	params := map[string]any{"field": a.Field}
	if a.Size > 0 {
		params["size"] = a.Size
	}
	return map[string]any{"terms": params}
}

// Search is a request body: the root bool query plus paging, sorting,
// stored-field projection and aggregations.
type Search struct {
	query        *Bool
	size         *int
	from         *int
	sorts        []FieldSort
	storedFields []string
	storedSet    bool
	aggregations []TermsAggregation
}

// NewSearch returns a search with an empty root query.
func NewSearch() *Search {
	return &Search{query: NewBool()}
}

// Query returns the root bool query.
func (s *Search) Query() *Bool {
	return s.query
}

// AddQuery attaches clause to the root query under combinator c.
func (s *Search) AddQuery(clause Clause, c Combinator) *Search {
	s.query.Add(clause, c)
	return s
}

// SetSize sets the number of hits to return.
func (s *Search) SetSize(n int) *Search {
	s.size = &n
	return s
}

// Size returns the configured size and whether it was set.
func (s *Search) Size() (int, bool) {
	if s.size == nil {
		return 0, false
	}
	return *s.size, true
}

// SetFrom sets the offset of the first hit.
func (s *Search) SetFrom(n int) *Search {
	s.from = &n
	return s
}

// From returns the configured offset and whether it was set.
func (s *Search) From() (int, bool) {
	if s.from == nil {
		return 0, false
	}
	return *s.from, true
}

// AddSort appends a sort. Sorts apply in insertion order.
func (s *Search) AddSort(sort FieldSort) *Search {
	s.sorts = append(s.sorts, sort)
	return s
}

// Sorts returns the configured sorts.
func (s *Search) Sorts() []FieldSort {
	return s.sorts
}

// SetStoredFields sets the stored-field projection. An empty, non-nil
// projection is meaningful: the engine then returns only hit metadata.
func (s *Search) SetStoredFields(fields []string) *Search {
	s.storedFields = append([]string{}, fields...)
	s.storedSet = true
	return s
}

// ClearStoredFields removes the projection so the whole document is returned.
func (s *Search) ClearStoredFields() *Search {
	s.storedFields = nil
	s.storedSet = false
	return s
}

// StoredFields returns the projection and whether one was set.
func (s *Search) StoredFields() ([]string, bool) {
	return s.storedFields, s.storedSet
}

// AddAggregation appends a terms aggregation.
func (s *Search) AddAggregation(agg TermsAggregation) *Search {
	s.aggregations = append(s.aggregations, agg)
	return s
}

// Aggregations returns the configured aggregations.
func (s *Search) Aggregations() []TermsAggregation {
	return s.aggregations
}

// Source renders the request body. The query key is omitted while the root
// group is empty, which the engine treats as match_all.
func (s *Search) Source() map[string]any {
	body := make(map[string]any)

	if !s.query.IsEmpty() {
		body["query"] = s.query.Source()
	}
	if s.size != nil {
		body["size"] = *s.size
	}
	if s.from != nil {
		body["from"] = *s.from
	}
	if len(s.sorts) > 0 {
		sorts := make([]any, len(s.sorts))
		for i, sort := range s.sorts {
			sorts[i] = sort.Source()
		}
		body["sort"] = sorts
	}
	if s.storedSet {
		fields := make([]any, len(s.storedFields))
		for i, f := range s.storedFields {
			fields[i] = f
		}
		body["stored_fields"] = fields
	}
	if len(s.aggregations) > 0 {
		aggs := make(map[string]any, len(s.aggregations))
		for _, agg := range s.aggregations {
			aggs[agg.Name] = agg.Source()
		}
		body["aggregations"] = aggs
	}

	return body
}

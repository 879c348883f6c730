package quarry

import (
	"github.com/pthm/quarry/internal/esdsl"
)

// Distinct requests the distinct values of field as a terms aggregation
// named after the field. size caps the number of buckets; 0 leaves the
// engine default. Read the values back with SearchResult.DistinctValues.
func (q *Query) Distinct(field string, size int) *Query {
	q.search.AddAggregation(esdsl.TermsAggregation{
		Name:  field,
		Field: field,
		Size:  size,
	})
	return q
}

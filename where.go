package quarry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pthm/quarry/internal/daterange"
	"github.com/pthm/quarry/internal/esdsl"
)

// Where adds a predicate using a relational operator:
//
//	=  !=  <>  >  >=  <  <=  in  not in  like  not like
//
// like and not like strip surrounding % markers and match the remainder as
// a substring. An unsupported operator records ErrUnsupportedOperator and
// adds nothing.
func (q *Query) Where(field, op string, value any) *Query {
	return q.where(field, op, value, Must)
}

func (q *Query) where(field, op string, value any, c Combinator) *Query {
	operator, err := ParseOperator(op)
	if err != nil {
		return q.fail(err)
	}

	switch operator {
	case OpEq:
		return q.whereEquals(field, value, c)
	case OpNe:
		return q.whereNotEquals(field, value, c)
	case OpGt, OpLt, OpGte, OpLte:
		return q.whereRange(field, operator, value, c)
	case OpIn:
		return q.whereIn(field, value, c)
	case OpNotIn:
		return q.whereNotIn(field, value, c)
	case OpLike:
		return q.whereContains(field, strings.Trim(scalarString(value), "%"), c)
	case OpNotLike:
		return q.whereNotContains(field, strings.Trim(scalarString(value), "%"), c)
	default:
		return q.fail(fmt.Errorf("%w: %s", ErrUnsupportedOperator, op))
	}
}

// WhereSub adds a nested group built by fn. fn receives a fresh query; only
// its clause tree is kept.
func (q *Query) WhereSub(fn func(sub *Query)) *Query {
	return q.WhereSubAs(Must, fn)
}

// WhereSubAs adds a nested group built by fn under combinator c. Use Filter
// for non-scoring predicates or MustNot to negate the whole group.
func (q *Query) WhereSubAs(c Combinator, fn func(sub *Query)) *Query {
	if !c.Valid() {
		return q.fail(fmt.Errorf("%w: combinator %s", ErrInvalidValue, c))
	}

	sub := newQuery(q.client)
	fn(sub)
	if sub.err != nil {
		return q.fail(sub.err)
	}

	q.search.AddQuery(sub.search.Query(), c)
	return q
}

// WhereEquals adds a term predicate.
func (q *Query) WhereEquals(field string, value any) *Query {
	return q.whereEquals(field, value, Must)
}

func (q *Query) whereEquals(field string, value any, c Combinator) *Query {
	q.group(c).Add(esdsl.Term{Field: field, Value: value}, Must)
	return q
}

// WhereNotEquals adds a negated term predicate.
func (q *Query) WhereNotEquals(field string, value any) *Query {
	return q.whereNotEquals(field, value, Must)
}

func (q *Query) whereNotEquals(field string, value any, c Combinator) *Query {
	q.negated(esdsl.Term{Field: field, Value: value}, c)
	return q
}

// WhereIn adds a terms predicate. values may be any slice or array.
func (q *Query) WhereIn(field string, values any) *Query {
	return q.whereIn(field, values, Must)
}

func (q *Query) whereIn(field string, value any, c Combinator) *Query {
	values, ok := toValues(value)
	if !ok {
		return q.fail(fmt.Errorf("%w: in %s requires a list, got %T", ErrInvalidValue, field, value))
	}
	q.group(c).Add(esdsl.Terms{Field: field, Values: values}, Must)
	return q
}

// WhereNotIn adds a negated terms predicate.
func (q *Query) WhereNotIn(field string, values any) *Query {
	return q.whereNotIn(field, values, Must)
}

func (q *Query) whereNotIn(field string, value any, c Combinator) *Query {
	values, ok := toValues(value)
	if !ok {
		return q.fail(fmt.Errorf("%w: not in %s requires a list, got %T", ErrInvalidValue, field, value))
	}
	q.negated(esdsl.Terms{Field: field, Values: values}, c)
	return q
}

// WhereContains matches field values containing keyword. Surrounding *
// markers are trimmed and the pattern is capped at MaxWildcardLength.
func (q *Query) WhereContains(field, keyword string) *Query {
	return q.whereContains(field, keyword, Must)
}

func (q *Query) whereContains(field, keyword string, c Combinator) *Query {
	return q.whereWildcard(field, containsPattern(keyword), c)
}

// WhereNotContains excludes field values containing keyword.
func (q *Query) WhereNotContains(field, keyword string) *Query {
	return q.whereNotContains(field, keyword, Must)
}

func (q *Query) whereNotContains(field, keyword string, c Combinator) *Query {
	q.negated(esdsl.Wildcard{Field: field, Value: limitPattern(containsPattern(keyword))}, c)
	return q
}

// WhereWildcard matches field against a raw * / ? pattern, capped at
// MaxWildcardLength.
func (q *Query) WhereWildcard(field, pattern string) *Query {
	return q.whereWildcard(field, pattern, Must)
}

func (q *Query) whereWildcard(field, pattern string, c Combinator) *Query {
	q.group(c).Add(esdsl.Wildcard{Field: field, Value: limitPattern(pattern)}, Must)
	return q
}

// WhereStartsWith adds a prefix predicate.
func (q *Query) WhereStartsWith(field, prefix string) *Query {
	return q.whereStartsWith(field, prefix, Must)
}

func (q *Query) whereStartsWith(field, prefix string, c Combinator) *Query {
	q.group(c).Add(esdsl.Prefix{Field: field, Value: prefix}, Must)
	return q
}

// WhereNotNull requires field to have a value.
func (q *Query) WhereNotNull(field string) *Query {
	return q.whereNotNull(field, Must)
}

func (q *Query) whereNotNull(field string, c Combinator) *Query {
	q.group(c).Add(esdsl.Exists{Field: field}, Must)
	return q
}

// WhereNull requires field to be missing.
func (q *Query) WhereNull(field string) *Query {
	return q.whereNull(field, Must)
}

func (q *Query) whereNull(field string, c Combinator) *Query {
	q.negated(esdsl.Exists{Field: field}, c)
	return q
}

// WhereBetween adds an inclusive range. Pass nil or a blank string for lower
// or upper to leave that side open. Dates and naive datetimes are normalized
// and the client's time zone is attached so day boundaries round in local
// time.
func (q *Query) WhereBetween(field string, lower, upper any) *Query {
	return q.whereBetween(field, lower, upper, Must)
}

// WhereNotBetween excludes an inclusive range.
func (q *Query) WhereNotBetween(field string, lower, upper any) *Query {
	q.negated(q.betweenClause(field, lower, upper), Must)
	return q
}

func (q *Query) whereBetween(field string, lower, upper any, c Combinator) *Query {
	q.group(c).Add(q.betweenClause(field, lower, upper), Must)
	return q
}

func (q *Query) betweenClause(field string, lower, upper any) esdsl.Range {
	needsZone := false
	bound := func(v any) any {
		if isBlank(v) {
			return nil
		}
		normalized, zone := daterange.Normalize(v, q.client.location)
		needsZone = needsZone || zone
		return normalized
	}

	r := esdsl.Range{
		Field: field,
		Bounds: []esdsl.Bound{
			{Op: esdsl.GTE, Value: bound(lower)},
			{Op: esdsl.LTE, Value: bound(upper)},
		},
	}
	if needsZone {
		r.TimeZone = daterange.ZoneName(q.client.location)
	}
	return r
}

// WhereRange adds a one-sided range using >, >=, < or <=. Each call adds its
// own group; two calls on the same field are not merged.
func (q *Query) WhereRange(field, op string, value any) *Query {
	return q.whereRangeOp(field, op, value, Must)
}

func (q *Query) whereRangeOp(field, op string, value any, c Combinator) *Query {
	operator, err := ParseOperator(op)
	if err != nil || !operator.IsRange() {
		return q.fail(fmt.Errorf("%w: range operator %s", ErrUnsupportedOperator, op))
	}
	return q.whereRange(field, operator, value, c)
}

func (q *Query) whereRange(field string, op Operator, value any, c Combinator) *Query {
	normalized, needsZone := daterange.Normalize(value, q.client.location)

	r := esdsl.Range{
		Field:  field,
		Bounds: []esdsl.Bound{{Op: rangeOps[op], Value: normalized}},
	}
	if needsZone {
		r.TimeZone = daterange.ZoneName(q.client.location)
	}

	q.group(c).Add(r, Must)
	return q
}

// group attaches a new predicate group under c. Each predicate gets its own
// group so a later negation can never capture an earlier predicate.
func (q *Query) group(c Combinator) *esdsl.Bool {
	return q.search.Query().AddBool(c)
}

// negated adds clause so that it must not match. The leaf is wrapped in its
// own group before negation; a bare negated term would also drop documents
// missing the field on some engines. Under any combinator other than Must the
// negation is nested inside a group of that combinator, so OrWhere with !=
// still lands in should.
func (q *Query) negated(clause esdsl.Clause, c Combinator) {
	if c == Must {
		q.group(MustNot).Add(clause, Must)
		return
	}
	q.group(c).AddBool(MustNot).Add(clause, Must)
}

func containsPattern(keyword string) string {
	return "*" + strings.Trim(keyword, "*") + "*"
}

func limitPattern(pattern string) string {
	runes := []rune(pattern)
	if len(runes) <= MaxWildcardLength {
		return pattern
	}
	return string(runes[:MaxWildcardLength])
}

func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	default:
		return false
	}
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// toValues converts the value of an in/not in predicate into a list.
func toValues(value any) ([]any, bool) {
	if v, ok := value.([]any); ok {
		return v, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is a scalar for query purposes.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

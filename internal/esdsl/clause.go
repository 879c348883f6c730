package esdsl

// Clause is the interface that all query DSL types implement.
type Clause interface {
	Source() map[string]any
}

// Term matches documents whose field exactly equals Value.
type Term struct {
	Field string
	Value any
}

// Source renders {"term": {field: value}}.
func (t Term) Source() map[string]any {
	return map[string]any{"term": map[string]any{t.Field: t.Value}}
}

// Terms matches documents whose field equals any of Values.
type Terms struct {
	Field  string
	Values []any
}

// Source renders {"terms": {field: [values...]}}.
func (t Terms) Source() map[string]any {
	values := t.Values
	if values == nil {
		values = []any{}
	}
	return map[string]any{"terms": map[string]any{t.Field: values}}
}

// RangeOp is a range bound operator.
type RangeOp string

// Range bound operators.
const (
	GT  RangeOp = "gt"
	GTE RangeOp = "gte"
	LT  RangeOp = "lt"
	LTE RangeOp = "lte"
)

// Bound is one side of a range. A nil Value means the side is open; it is
// still rendered (as null) so the clause shape stays stable.
type Bound struct {
	Op    RangeOp
	Value any
}

// Range matches documents whose field falls within Bounds.
// TimeZone, when set, is rendered as the range's time_zone parameter.
type Range struct {
	Field    string
	Bounds   []Bound
	TimeZone string
}

// Source renders {"range": {field: {op: value, ..., "time_zone": tz}}}.
func (r Range) Source() map[string]any {
	params := make(map[string]any, len(r.Bounds)+1)
	for _, b := range r.Bounds {
		params[string(b.Op)] = b.Value
	}
	if r.TimeZone != "" {
		params["time_zone"] = r.TimeZone
	}
	return map[string]any{"range": map[string]any{r.Field: params}}
}

// Bound returns the bound for op and whether it is present.
func (r Range) Bound(op RangeOp) (any, bool) {
	for _, b := range r.Bounds {
		if b.Op == op {
			return b.Value, true
		}
	}
	return nil, false
}

// Exists matches documents that have a value for Field.
type Exists struct {
	Field string
}

// Source renders {"exists": {"field": field}}.
func (e Exists) Source() map[string]any {
	return map[string]any{"exists": map[string]any{"field": e.Field}}
}

// Wildcard matches Field against a pattern using * and ?.
type Wildcard struct {
	Field string
	Value string
}

// Source renders {"wildcard": {field: pattern}}.
func (w Wildcard) Source() map[string]any {
	return map[string]any{"wildcard": map[string]any{w.Field: w.Value}}
}

// Prefix matches documents whose field starts with Value.
type Prefix struct {
	Field string
	Value string
}

// Source renders {"prefix": {field: value}}.
func (p Prefix) Source() map[string]any {
	return map[string]any{"prefix": map[string]any{p.Field: p.Value}}
}

// Ensure leaf types implement Clause.
var (
	_ Clause = Term{}
	_ Clause = Terms{}
	_ Clause = Range{}
	_ Clause = Exists{}
	_ Clause = Wildcard{}
	_ Clause = Prefix{}
	_ Clause = (*Bool)(nil)
)

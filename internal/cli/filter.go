package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pthm/quarry"
)

// Filter is one parsed --where expression.
type Filter struct {
	Field string
	// Op is an operator spelling accepted by quarry.ParseOperator, or
	// "between".
	Op     string
	Value  string
	Values []string // in, not in
	Lower  string   // between
	Upper  string   // between
}

const opBetween = "between"

var (
	// Word operators need surrounding whitespace; the longest spellings
	// come first so "not like" wins over "like".
	wordOpPattern = regexp.MustCompile(`(?i)^\s*(\S+)\s+(not\s+like|not\s+in|like|in|between)\s+(.*?)\s*$`)
	// Symbolic operators may be written without spaces.
	symbolOpPattern = regexp.MustCompile(`^\s*([^\s=!<>]+)\s*(!=|<>|>=|<=|=|>|<)\s*(.*?)\s*$`)
)

// ParseFilter parses "field OP value".
//
// OP is one of = != <> > >= < <= like, not like, in, not in or between.
// in and not in take a comma separated list. between takes "lower..upper"
// where either side may be empty. Values may be wrapped in single or double
// quotes.
func ParseFilter(expr string) (Filter, error) {
	m := wordOpPattern.FindStringSubmatch(expr)
	if m == nil {
		m = symbolOpPattern.FindStringSubmatch(expr)
	}
	if m == nil {
		return Filter{}, fmt.Errorf("filter %q: expected \"field OP value\"", expr)
	}

	f := Filter{
		Field: m[1],
		Op:    strings.ToLower(strings.Join(strings.Fields(m[2]), " ")),
	}
	raw := m[3]

	switch f.Op {
	case "in", "not in":
		for _, part := range strings.Split(raw, ",") {
			if v := unquote(strings.TrimSpace(part)); v != "" {
				f.Values = append(f.Values, v)
			}
		}
		if len(f.Values) == 0 {
			return Filter{}, fmt.Errorf("filter %q: %s needs at least one value", expr, f.Op)
		}
	case opBetween:
		lower, upper, ok := strings.Cut(raw, "..")
		if !ok {
			return Filter{}, fmt.Errorf("filter %q: between expects lower..upper", expr)
		}
		f.Lower = unquote(strings.TrimSpace(lower))
		f.Upper = unquote(strings.TrimSpace(upper))
	default:
		if _, err := quarry.ParseOperator(f.Op); err != nil {
			return Filter{}, fmt.Errorf("filter %q: %w", expr, err)
		}
		f.Value = unquote(raw)
	}
	return f, nil
}

// Apply adds the filter to q, under should when or is set.
func (f Filter) Apply(q *quarry.Query, or bool) *quarry.Query {
	switch f.Op {
	case opBetween:
		var lower, upper any
		if f.Lower != "" {
			lower = f.Lower
		}
		if f.Upper != "" {
			upper = f.Upper
		}
		if or {
			return q.OrWhereBetween(f.Field, lower, upper)
		}
		return q.WhereBetween(f.Field, lower, upper)
	case "in", "not in":
		values := make([]any, len(f.Values))
		for i, v := range f.Values {
			values[i] = v
		}
		if or {
			return q.OrWhere(f.Field, f.Op, values)
		}
		return q.Where(f.Field, f.Op, values)
	default:
		if or {
			return q.OrWhere(f.Field, f.Op, f.Value)
		}
		return q.Where(f.Field, f.Op, f.Value)
	}
}

// ApplyFilters parses and applies every expression, must first then should.
func ApplyFilters(q *quarry.Query, where, orWhere []string) error {
	for _, group := range []struct {
		exprs []string
		or    bool
	}{{where, false}, {orWhere, true}} {
		for _, expr := range group.exprs {
			f, err := ParseFilter(expr)
			if err != nil {
				return err
			}
			f.Apply(q, group.or)
		}
	}
	return q.Err()
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

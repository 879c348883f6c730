package esdsl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClauseSource(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		expect map[string]any
	}{
		{
			"term",
			Term{Field: "status", Value: "active"},
			map[string]any{"term": map[string]any{"status": "active"}},
		},
		{
			"terms",
			Terms{Field: "tag", Values: []any{"a", "b"}},
			map[string]any{"terms": map[string]any{"tag": []any{"a", "b"}}},
		},
		{
			"terms nil renders empty array",
			Terms{Field: "tag"},
			map[string]any{"terms": map[string]any{"tag": []any{}}},
		},
		{
			"range with open lower bound",
			Range{Field: "age", Bounds: []Bound{{GTE, nil}, {LTE, 30}}},
			map[string]any{"range": map[string]any{"age": map[string]any{"gte": nil, "lte": 30}}},
		},
		{
			"range with zone",
			Range{Field: "at", Bounds: []Bound{{GT, "2020-03-08"}}, TimeZone: "Asia/Shanghai"},
			map[string]any{"range": map[string]any{"at": map[string]any{"gt": "2020-03-08", "time_zone": "Asia/Shanghai"}}},
		},
		{
			"exists",
			Exists{Field: "email"},
			map[string]any{"exists": map[string]any{"field": "email"}},
		},
		{
			"wildcard",
			Wildcard{Field: "name", Value: "*bob*"},
			map[string]any{"wildcard": map[string]any{"name": "*bob*"}},
		},
		{
			"prefix",
			Prefix{Field: "sku", Value: "AB-"},
			map[string]any{"prefix": map[string]any{"sku": "AB-"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.clause.Source())
		})
	}
}

func TestRangeBound(t *testing.T) {
	r := Range{Field: "age", Bounds: []Bound{{GTE, nil}, {LTE, 30}}}

	v, ok := r.Bound(GTE)
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = r.Bound(LTE)
	assert.True(t, ok)
	assert.Equal(t, 30, v)

	_, ok = r.Bound(GT)
	assert.False(t, ok)
}

func TestBool(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		b := NewBool()
		assert.True(t, b.IsEmpty())
		assert.Equal(t, map[string]any{"bool": map[string]any{}}, b.Source())
	})

	t.Run("AddBool attaches a fresh group", func(t *testing.T) {
		root := NewBool()
		g := root.AddBool(MustNot)
		g.Add(Term{Field: "a", Value: 1}, Must)

		require.Len(t, root.Clauses(MustNot), 1)
		assert.Same(t, g, root.Clauses(MustNot)[0])
		assert.Equal(t, 1, root.Len())
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		b := NewBool()
		b.Add(Term{Field: "a", Value: 1}, Should)
		b.Add(Term{Field: "b", Value: 2}, Should)
		b.Add(Exists{Field: "c"}, Filter)

		src := b.Source()["bool"].(map[string]any)
		should := src["should"].([]any)
		require.Len(t, should, 2)
		assert.Equal(t, Term{Field: "a", Value: 1}.Source(), should[0])
		assert.Equal(t, Term{Field: "b", Value: 2}.Source(), should[1])
		assert.NotContains(t, src, "must")
		assert.Contains(t, src, "filter")
	})

	t.Run("invalid combinator falls back to must", func(t *testing.T) {
		b := NewBool()
		b.Add(Exists{Field: "x"}, Combinator(42))
		assert.Len(t, b.Clauses(Must), 1)
	})
}

func TestCombinator(t *testing.T) {
	for _, c := range Combinators {
		parsed, err := ParseCombinator(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCombinator("maybe")
	assert.Error(t, err)
	assert.Equal(t, "Combinator(9)", Combinator(9).String())
}

func TestSearchSource(t *testing.T) {
	t.Run("empty query is omitted", func(t *testing.T) {
		s := NewSearch().SetSize(100)
		assert.Equal(t, map[string]any{"size": 100}, s.Source())
	})

	t.Run("full body", func(t *testing.T) {
		s := NewSearch()
		s.Query().AddBool(Must).Add(Term{Field: "status", Value: "active"}, Must)
		s.SetSize(20).SetFrom(40)
		s.AddSort(FieldSort{Field: "created_at", Order: Desc})
		s.AddSort(FieldSort{Field: "id"})
		s.SetStoredFields([]string{"id", "name"})
		s.AddAggregation(TermsAggregation{Name: "city", Field: "city", Size: 10})

		body := s.Source()
		assert.Equal(t, 20, body["size"])
		assert.Equal(t, 40, body["from"])
		assert.Equal(t, []any{
			map[string]any{"created_at": map[string]any{"order": "desc"}},
			map[string]any{"id": map[string]any{"order": "asc"}},
		}, body["sort"])
		assert.Equal(t, []any{"id", "name"}, body["stored_fields"])
		assert.Equal(t, map[string]any{
			"city": map[string]any{"terms": map[string]any{"field": "city", "size": 10}},
		}, body["aggregations"])
		assert.Contains(t, body, "query")
	})

	t.Run("explicitly empty stored fields are rendered", func(t *testing.T) {
		s := NewSearch().SetStoredFields(nil)
		assert.Equal(t, []any{}, s.Source()["stored_fields"])

		fields, ok := s.StoredFields()
		assert.True(t, ok)
		assert.Empty(t, fields)
	})

	t.Run("unset stored fields are omitted", func(t *testing.T) {
		assert.NotContains(t, NewSearch().Source(), "stored_fields")
	})

	t.Run("cleared stored fields are omitted", func(t *testing.T) {
		s := NewSearch().SetStoredFields([]string{"id"}).ClearStoredFields()
		assert.NotContains(t, s.Source(), "stored_fields")

		_, ok := s.StoredFields()
		assert.False(t, ok)
	})
}

func buildTree() *Bool {
	root := NewBool()
	root.AddBool(Must).Add(Term{Field: "status", Value: "active"}, Must)
	root.AddBool(Should).Add(Range{Field: "priority", Bounds: []Bound{{GT, "5"}}}, Must)
	neg := root.AddBool(MustNot)
	neg.Add(Terms{Field: "tag", Values: []any{"spam", "junk"}}, Must)
	or := root.AddBool(Should)
	or.AddBool(MustNot).Add(Exists{Field: "deleted_at"}, Must)
	root.AddBool(Filter).Add(Wildcard{Field: "title", Value: "*go*"}, Must)
	root.AddBool(Must).Add(Prefix{Field: "sku", Value: "AB"}, Must)
	root.AddBool(Must).Add(Range{
		Field:    "created_at",
		Bounds:   []Bound{{GTE, nil}, {LTE, "2020-03-08"}},
		TimeZone: "UTC",
	}, Must)
	return root
}

func TestParse_RoundTrip(t *testing.T) {
	root := buildTree()
	src := root.Source()

	parsed, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, src, parsed.Source())
}

func TestParse_RoundTripThroughJSON(t *testing.T) {
	root := buildTree()

	first, err := json.Marshal(root.Source())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))

	parsed, err := Parse(decoded)
	require.NoError(t, err)

	second, err := json.Marshal(parsed.Source())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  map[string]any
		want string
	}{
		{"empty", map[string]any{}, "exactly one key"},
		{"two keys", map[string]any{"term": map[string]any{}, "exists": map[string]any{}}, "exactly one key"},
		{"non object body", map[string]any{"term": "x"}, "must be an object"},
		{"unknown kind", map[string]any{"match": map[string]any{"f": "x"}}, "unsupported clause type"},
		{"terms not array", map[string]any{"terms": map[string]any{"f": "x"}}, "requires an array"},
		{"wildcard not string", map[string]any{"wildcard": map[string]any{"f": 1}}, "requires a string"},
		{"exists without field", map[string]any{"exists": map[string]any{}}, "string field"},
		{"range bad param", map[string]any{"range": map[string]any{"f": map[string]any{"boost": 2}}}, "unsupported parameters"},
		{"bool bad key", map[string]any{"bool": map[string]any{"maybe": []any{}}}, "unknown bool combinator"},
		{"bool nested error", map[string]any{"bool": map[string]any{"must": []any{map[string]any{}}}}, "bool must[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

package quarry_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/esdsl"
	"github.com/pthm/quarry/internal/testutil"
)

func newClient(t *testing.T, tr quarry.Transport, opts ...quarry.Option) *quarry.Client {
	t.Helper()
	base := []quarry.Option{
		quarry.WithTracer(quarry.NopTracer{}),
		quarry.WithLocation(time.UTC),
	}
	return quarry.NewClient(tr, append(base, opts...)...)
}

// group renders {"bool": {key: children}}.
func group(key string, children ...any) map[string]any {
	return map[string]any{"bool": map[string]any{key: children}}
}

func term(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func rangeOf(field string, params map[string]any) map[string]any {
	return map[string]any{"range": map[string]any{field: params}}
}

func wildcard(field, pattern string) map[string]any {
	return map[string]any{"wildcard": map[string]any{field: pattern}}
}

func exists(field string) map[string]any {
	return map[string]any{"exists": map[string]any{"field": field}}
}

func queryOf(t *testing.T, q *quarry.Query) map[string]any {
	t.Helper()
	require.NoError(t, q.Err())
	query, ok := q.ToMap()["query"].(map[string]any)
	require.True(t, ok, "body should carry a query")
	return query
}

func TestWhereEquals_SingleTermUnderMust(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereEquals("status", "active")

	assert.Equal(t, group("must", group("must", term("status", "active"))), queryOf(t, q))
}

func TestWhere_TicketsScenario(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		Where("status", "=", "active").
		OrWhere("priority", ">", "5").
		Limit(10)

	want := map[string]any{
		"bool": map[string]any{
			"must":   []any{group("must", term("status", "active"))},
			"should": []any{group("must", rangeOf("priority", map[string]any{"gt": "5"}))},
		},
	}
	assert.Equal(t, want, queryOf(t, q))

	params := q.Params()
	assert.Equal(t, "tickets", params.Index)
	assert.Equal(t, 10, params.Body["size"])
}

func TestWhere_Operators(t *testing.T) {
	tests := []struct {
		name  string
		op    string
		value any
		want  map[string]any
	}{
		{"equals", "=", "open", group("must", group("must", term("state", "open")))},
		{"not equals", "!=", "open", group("must_not", group("must", term("state", "open")))},
		{"not equals alias", "<>", "open", group("must_not", group("must", term("state", "open")))},
		{"greater", ">", 3, group("must", group("must", rangeOf("state", map[string]any{"gt": 3})))},
		{"greater equal", ">=", 3, group("must", group("must", rangeOf("state", map[string]any{"gte": 3})))},
		{"less", "<", 3, group("must", group("must", rangeOf("state", map[string]any{"lt": 3})))},
		{"less equal", "<=", 3, group("must", group("must", rangeOf("state", map[string]any{"lte": 3})))},
		{
			"in", "in", []string{"a", "b"},
			group("must", group("must", map[string]any{"terms": map[string]any{"state": []any{"a", "b"}}})),
		},
		{
			"not in", "not in", []int{1, 2},
			group("must_not", group("must", map[string]any{"terms": map[string]any{"state": []any{1, 2}}})),
		},
		{"like", "like", "%pen%", group("must", group("must", wildcard("state", "*pen*")))},
		{"not like", "NOT LIKE", "%pen", group("must_not", group("must", wildcard("state", "*pen*")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newClient(t, nil).Query("tickets").Where("state", tt.op, tt.value)
			assert.Equal(t, tt.want, queryOf(t, q))
		})
	}
}

func TestWhere_UnsupportedOperator(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		Where("state", "~=", "x").
		WhereEquals("status", "active")

	require.Error(t, q.Err())
	assert.True(t, quarry.IsUnsupportedOperatorErr(q.Err()))
	assert.Contains(t, q.Err().Error(), "~=")

	// The failing call added nothing; later calls still build.
	assert.Equal(t, group("must", group("must", term("status", "active"))), q.ToMap()["query"])
}

func TestWhere_FirstErrorWins(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		Where("a", "between", 1).
		WhereIn("b", "not a list")

	assert.True(t, quarry.IsUnsupportedOperatorErr(q.Err()))
	assert.False(t, quarry.IsInvalidValueErr(q.Err()))
}

func TestWhereIn_RequiresList(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereIn("id", 42)
	assert.True(t, quarry.IsInvalidValueErr(q.Err()))
	assert.NotContains(t, q.ToMap(), "query")
}

func TestWhereNull(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereNull("closed_at").WhereNotNull("opened_at")

	want := map[string]any{
		"bool": map[string]any{
			"must":     []any{group("must", exists("opened_at"))},
			"must_not": []any{group("must", exists("closed_at"))},
		},
	}
	assert.Equal(t, want, queryOf(t, q))
}

func TestWhereStartsWith(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereStartsWith("title", "Err")
	want := group("must", group("must", map[string]any{"prefix": map[string]any{"title": "Err"}}))
	assert.Equal(t, want, queryOf(t, q))
}

func TestWhereContains_TrimsMarkers(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereContains("title", "**disk*")
	assert.Equal(t, group("must", group("must", wildcard("title", "*disk*"))), queryOf(t, q))
}

func TestWhereContains_PatternCapped(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
	}{
		{"just over", strings.Repeat("k", 47)},
		{"long", strings.Repeat("keyword", 20)},
		{"multibyte", strings.Repeat("ü", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newClient(t, nil).Query("tickets").WhereContains("title", tt.keyword)

			clause, err := esdsl.Parse(queryOf(t, q))
			require.NoError(t, err)
			inner := clause.(*esdsl.Bool).Clauses(esdsl.Must)[0].(*esdsl.Bool)
			w := inner.Clauses(esdsl.Must)[0].(esdsl.Wildcard)

			assert.LessOrEqual(t, utf8.RuneCountInString(w.Value), quarry.MaxWildcardLength)
			assert.True(t, strings.HasPrefix(w.Value, "*"))
			assert.True(t, utf8.ValidString(w.Value))
		})
	}
}

func TestWhereWildcard_PatternCapped(t *testing.T) {
	pattern := strings.Repeat("a?", 40)
	q := newClient(t, nil).Query("tickets").WhereWildcard("code", pattern)
	assert.Equal(t, group("must", group("must", wildcard("code", pattern[:50]))), queryOf(t, q))
}

func TestWhereBetween(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper any
		want         map[string]any
	}{
		{
			name:  "numbers",
			lower: 1, upper: 10,
			want: map[string]any{"gte": 1, "lte": 10},
		},
		{
			name:  "empty lower is open",
			lower: "", upper: 10,
			want: map[string]any{"gte": nil, "lte": 10},
		},
		{
			name:  "blank upper is open",
			lower: 1, upper: "   ",
			want: map[string]any{"gte": 1, "lte": nil},
		},
		{
			name:  "nil lower is open",
			lower: nil, upper: 10,
			want: map[string]any{"gte": nil, "lte": 10},
		},
		{
			name:  "dates get a zone",
			lower: "2020-3-8", upper: "2020-03-10 10:00:00",
			want: map[string]any{"gte": "2020-03-08", "lte": "2020-03-10T10:00:00Z", "time_zone": "UTC"},
		},
		{
			name:  "one date is enough for a zone",
			lower: "", upper: "2020-03-10",
			want: map[string]any{"gte": nil, "lte": "2020-03-10", "time_zone": "UTC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newClient(t, nil).Query("tickets").WhereBetween("created", tt.lower, tt.upper)
			assert.Equal(t, group("must", group("must", rangeOf("created", tt.want))), queryOf(t, q))
		})
	}
}

func TestWhereBetween_UsesClientLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	q := newClient(t, nil, quarry.WithLocation(loc)).Query("tickets").
		WhereBetween("created", "2020-03-08 00:00:00", nil)

	want := map[string]any{"gte": "2020-03-08T00:00:00+08:00", "lte": nil, "time_zone": "Asia/Shanghai"}
	assert.Equal(t, group("must", group("must", rangeOf("created", want))), queryOf(t, q))
}

func TestWhereBetween_FixedZoneSendsOffset(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)

	q := newClient(t, nil, quarry.WithLocation(loc)).Query("tickets").
		WhereBetween("created", "2020-03-08", nil)

	want := map[string]any{"gte": "2020-03-08", "lte": nil, "time_zone": "+08:00"}
	assert.Equal(t, group("must", group("must", rangeOf("created", want))), queryOf(t, q))
}

func TestWhereNotBetween(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereNotBetween("score", 1, 5)
	want := group("must_not", group("must", rangeOf("score", map[string]any{"gte": 1, "lte": 5})))
	assert.Equal(t, want, queryOf(t, q))
}

func TestWhereRange_SeparateGroups(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		WhereRange("age", ">", 18).
		WhereRange("age", "<=", 65)

	want := group("must",
		group("must", rangeOf("age", map[string]any{"gt": 18})),
		group("must", rangeOf("age", map[string]any{"lte": 65})),
	)
	assert.Equal(t, want, queryOf(t, q))
}

func TestWhereRange_RejectsNonRangeOperator(t *testing.T) {
	for _, op := range []string{"=", "in", "like", "?"} {
		t.Run(op, func(t *testing.T) {
			q := newClient(t, nil).Query("tickets").WhereRange("age", op, 1)
			assert.True(t, quarry.IsUnsupportedOperatorErr(q.Err()))
			assert.NotContains(t, q.ToMap(), "query")
		})
	}
}

func TestWhereRange_DateGetsZone(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereRange("created", ">=", "2021-01-02T03:04:05+02:00")
	want := map[string]any{"gte": "2021-01-02T03:04:05+02:00", "time_zone": "UTC"}
	assert.Equal(t, group("must", group("must", rangeOf("created", want))), queryOf(t, q))
}

func TestOrWhere_NegationsNestUnderShould(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		OrWhereNotEquals("state", "closed").
		OrWhereNull("assignee")

	want := group("should",
		group("must_not", group("must", term("state", "closed"))),
		group("must_not", group("must", exists("assignee"))),
	)
	assert.Equal(t, want, queryOf(t, q))
}

func TestOrWhere_Family(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		OrWhereEquals("a", 1).
		OrWhereIn("b", []string{"x"}).
		OrWhereContains("c", "y").
		OrWhereWildcard("d", "z*").
		OrWhereStartsWith("e", "p").
		OrWhereNotNull("f").
		OrWhereBetween("g", 1, 2).
		OrWhereRange("h", "<", 3)

	query := queryOf(t, q)
	body := query["bool"].(map[string]any)
	assert.Len(t, body, 1, "everything lands under should")
	assert.Len(t, body["should"], 8)
}

func TestWhereSub(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		WhereEquals("status", "open").
		WhereSub(func(sub *quarry.Query) {
			sub.OrWhereEquals("owner", "alice").
				OrWhereEquals("owner", "bob").
				Limit(1).
				OrderByDesc("created")
		})

	want := group("must",
		group("must", term("status", "open")),
		group("should",
			group("must", term("owner", "alice")),
			group("must", term("owner", "bob")),
		),
	)
	assert.Equal(t, want, queryOf(t, q))

	body := q.ToMap()
	assert.Equal(t, quarry.DefaultSize, body["size"], "sub-query paging is discarded")
	assert.NotContains(t, body, "sort")
}

func TestWhereSubAs(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		WhereSubAs(quarry.MustNot, func(sub *quarry.Query) {
			sub.WhereEquals("spam", true)
		}).
		OrWhereSub(func(sub *quarry.Query) {
			sub.WhereEquals("vip", true)
		})

	want := map[string]any{
		"bool": map[string]any{
			"must_not": []any{group("must", group("must", term("spam", true)))},
			"should":   []any{group("must", group("must", term("vip", true)))},
		},
	}
	assert.Equal(t, want, queryOf(t, q))
}

func TestWhereSub_PropagatesError(t *testing.T) {
	q := newClient(t, nil).Query("tickets").WhereSub(func(sub *quarry.Query) {
		sub.Where("a", "??", 1)
	})
	assert.True(t, quarry.IsUnsupportedOperatorErr(q.Err()))
	assert.NotContains(t, q.ToMap(), "query")
}

func TestWhereSubAs_InvalidCombinator(t *testing.T) {
	called := false
	q := newClient(t, nil).Query("tickets").WhereSubAs(quarry.Combinator(9), func(*quarry.Query) {
		called = true
	})
	assert.False(t, called)
	assert.True(t, quarry.IsInvalidValueErr(q.Err()))
}

func TestCompile_RoundTrip(t *testing.T) {
	q := newClient(t, nil).Query("tickets").
		Where("status", "=", "active").
		Where("tags", "in", []string{"db", "io"}).
		WhereNotContains("title", "flaky").
		WhereBetween("created", "2020-1-1", "").
		OrWhere("priority", ">", 5).
		OrWhereNull("assignee").
		WhereSub(func(sub *quarry.Query) {
			sub.WhereStartsWith("code", "E").OrWhereNotNull("trace")
		})

	src := queryOf(t, q)

	parsed, err := esdsl.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, src, parsed.Source())

	first, err := json.Marshal(src)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	reparsed, err := esdsl.Parse(decoded)
	require.NoError(t, err)
	second, err := json.Marshal(reparsed.Source())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestEmptyQueryOmitted(t *testing.T) {
	body := newClient(t, nil).Query("tickets").ToMap()
	assert.Equal(t, map[string]any{"size": quarry.DefaultSize}, body)
}

func TestRequestShaping(t *testing.T) {
	q := newClient(t, testutil.NewTransport(), quarry.WithDefaultSize(25)).Query("tickets").
		SetType("_doc").
		Select("title", "status").
		OrderBy("priority", quarry.Desc).
		OrderBy("created", quarry.Asc).
		SetPaginate(20, 3).
		Distinct("status", 5)

	params := q.Params()
	assert.Equal(t, "tickets", params.Index)
	assert.Equal(t, "_doc", params.Type)
	assert.Equal(t, map[string]any{
		"size":          20,
		"from":          40,
		"stored_fields": []any{"title", "status"},
		"sort": []any{
			map[string]any{"priority": map[string]any{"order": "desc"}},
			map[string]any{"created": map[string]any{"order": "asc"}},
		},
		"aggregations": map[string]any{
			"status": map[string]any{"terms": map[string]any{"field": "status", "size": 5}},
		},
	}, params.Body)

	assert.Equal(t, map[string]any{
		"index": "tickets",
		"type":  "_doc",
		"body":  params.Body,
	}, params.Params())
}

func TestSelect_NoFieldsReturnsWholeDocument(t *testing.T) {
	q := newClient(t, nil).Query("tickets")

	assert.NotContains(t, q.Select().ToMap(), "stored_fields")
	assert.NotContains(t, q.Select("title").Select().ToMap(), "stored_fields")
}

func TestDefaultSize(t *testing.T) {
	body := newClient(t, nil, quarry.WithDefaultSize(25)).Query("tickets").ToMap()
	assert.Equal(t, 25, body["size"])
}

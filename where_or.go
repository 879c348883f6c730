package quarry

// The OrWhere family mirrors the Where family with each group placed under
// should. Should clauses follow the engine's rules: with any must clause
// present they only raise the score, and without one at least one of them
// has to match.

// OrWhere is Where under should.
func (q *Query) OrWhere(field, op string, value any) *Query {
	return q.where(field, op, value, Should)
}

// OrWhereSub is WhereSub under should.
func (q *Query) OrWhereSub(fn func(sub *Query)) *Query {
	return q.WhereSubAs(Should, fn)
}

// OrWhereEquals is WhereEquals under should.
func (q *Query) OrWhereEquals(field string, value any) *Query {
	return q.whereEquals(field, value, Should)
}

// OrWhereNotEquals is WhereNotEquals under should.
func (q *Query) OrWhereNotEquals(field string, value any) *Query {
	return q.whereNotEquals(field, value, Should)
}

// OrWhereIn is WhereIn under should.
func (q *Query) OrWhereIn(field string, values any) *Query {
	return q.whereIn(field, values, Should)
}

// OrWhereContains is WhereContains under should.
func (q *Query) OrWhereContains(field, keyword string) *Query {
	return q.whereContains(field, keyword, Should)
}

// OrWhereWildcard is WhereWildcard under should.
func (q *Query) OrWhereWildcard(field, pattern string) *Query {
	return q.whereWildcard(field, pattern, Should)
}

// OrWhereStartsWith is WhereStartsWith under should.
func (q *Query) OrWhereStartsWith(field, prefix string) *Query {
	return q.whereStartsWith(field, prefix, Should)
}

// OrWhereNull is WhereNull under should.
func (q *Query) OrWhereNull(field string) *Query {
	return q.whereNull(field, Should)
}

// OrWhereNotNull is WhereNotNull under should.
func (q *Query) OrWhereNotNull(field string) *Query {
	return q.whereNotNull(field, Should)
}

// OrWhereBetween is WhereBetween under should.
func (q *Query) OrWhereBetween(field string, lower, upper any) *Query {
	return q.whereBetween(field, lower, upper, Should)
}

// OrWhereRange is WhereRange under should.
func (q *Query) OrWhereRange(field, op string, value any) *Query {
	return q.whereRangeOp(field, op, value, Should)
}

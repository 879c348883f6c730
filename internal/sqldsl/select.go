package sqldsl

import (
	"fmt"
	"strings"
)

// Sqlf formats SQL, dropping blank lines and the common indentation so the
// statement's shape stays visible in the format string.
func Sqlf(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	lines := strings.Split(s, "\n")

	minIndent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}

	var result []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result = append(result, line[minIndent:])
	}
	return strings.Join(result, "\n")
}

// Optf returns the formatted string when cond holds, "" otherwise.
func Optf(cond bool, format string, args ...any) string {
	if !cond {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Expr Expr
	Desc bool
}

// SQL renders the term.
func (o OrderBy) SQL() string {
	if o.Desc {
		return o.Expr.SQL() + " DESC"
	}
	return o.Expr.SQL()
}

// SelectStmt is a SELECT query.
type SelectStmt struct {
	Columns []Expr
	From    TableName
	Alias   string
	Where   Expr
	OrderBy []OrderBy
	Limit   int
}

// SQL renders the statement.
func (s SelectStmt) SQL() string {
	return Sqlf(`
		SELECT %s
		FROM %s
		%s
		%s
		%s`,
		s.columnsSQL(),
		s.fromSQL(),
		Optf(s.Where != nil, "WHERE %s", sqlOf(s.Where)),
		s.orderSQL(),
		Optf(s.Limit > 0, "LIMIT %d", s.Limit),
	)
}

func (s SelectStmt) columnsSQL() string {
	if len(s.Columns) == 0 {
		return Star{}.SQL()
	}
	parts := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		parts[i] = c.SQL()
	}
	return strings.Join(parts, ", ")
}

func (s SelectStmt) fromSQL() string {
	if s.Alias == "" {
		return s.From.SQL()
	}
	return s.From.SQL() + " AS " + Ident(s.Alias).SQL()
}

func (s SelectStmt) orderSQL() string {
	if len(s.OrderBy) == 0 {
		return ""
	}
	parts := make([]string, len(s.OrderBy))
	for i, o := range s.OrderBy {
		parts[i] = o.SQL()
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

func sqlOf(e Expr) string {
	if e == nil {
		return ""
	}
	return e.SQL()
}

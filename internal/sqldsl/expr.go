package sqldsl

import (
	"fmt"
	"regexp"
	"strings"
)

// Expr is the interface that all SQL expression types implement.
type Expr interface {
	SQL() string
}

// Ident is a quoted identifier.
type Ident string

// SQL renders the identifier in double quotes, doubling embedded quotes.
func (i Ident) SQL() string {
	return `"` + strings.ReplaceAll(string(i), `"`, `""`) + `"`
}

// TableName is an optionally schema-qualified table.
type TableName struct {
	Schema string
	Name   string
}

// SQL renders "schema"."name" or "name".
func (t TableName) SQL() string {
	if t.Schema == "" {
		return Ident(t.Name).SQL()
	}
	return Ident(t.Schema).SQL() + "." + Ident(t.Name).SQL()
}

// Col is a column reference, optionally qualified by a table alias.
type Col struct {
	Table  string
	Column string
}

// SQL renders the column reference.
func (c Col) SQL() string {
	if c.Table == "" {
		return Ident(c.Column).SQL()
	}
	return Ident(c.Table).SQL() + "." + Ident(c.Column).SQL()
}

// Star selects every column.
type Star struct{}

// SQL renders *.
func (Star) SQL() string { return "*" }

// Param is a positional parameter placeholder.
type Param int

// SQL renders $n.
func (p Param) SQL() string {
	return fmt.Sprintf("$%d", int(p))
}

// Lit is a string literal.
type Lit string

// SQL renders the literal with single quotes.
func (l Lit) SQL() string {
	escaped := strings.ReplaceAll(string(l), "'", "''")
	return "'" + escaped + "'"
}

// Cast is a PostgreSQL type cast (expr::type).
type Cast struct {
	Expr Expr
	Type string
}

// SQL renders the cast.
func (c Cast) SQL() string {
	return c.Expr.SQL() + "::" + c.Type
}

// Func is a function call.
type Func struct {
	Name string
	Args []Expr
}

// SQL renders the function call.
func (f Func) SQL() string {
	args := make([]string, len(f.Args))
	for i, arg := range f.Args {
		args[i] = arg.SQL()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether s is a plain identifier: a letter or
// underscore followed by letters, digits or underscores. Config-provided
// names are checked with it before they reach a statement.
func ValidIdent(s string) bool {
	return identPattern.MatchString(s)
}

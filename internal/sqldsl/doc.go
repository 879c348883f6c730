// Package sqldsl provides typed building blocks for the PostgreSQL queries
// issued by the SQL retriever and the doctor checks.
//
// # Core Interfaces
//
// Every type implements Expr, whose SQL method renders PostgreSQL syntax:
//
//	Ident("tickets")                    // "tickets"
//	Col{Table: "t", Column: "id"}       // "t"."id"
//	Param(1)                            // $1
//	Cast{Expr: Param(1), Type: "text[]"} // $1::text[]
//	Lit("open")                         // 'open'
//
// Operators compose expressions:
//
//	Eq{Left: col, Right: Param(1)}      // col = $1
//	AnyOf{Expr: col, Array: ids}        // col = ANY(ids)
//	And(expr1, expr2)                   // (expr1 AND expr2)
//
// SelectStmt renders a complete query. Identifiers are always quoted so
// configured table and column names cannot change the statement's shape;
// values travel as positional parameters.
package sqldsl

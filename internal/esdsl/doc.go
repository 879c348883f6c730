// Package esdsl provides a typed model of the Elasticsearch query DSL subset
// that quarry compiles to.
//
// # Overview
//
// Rather than assembling nested map[string]any literals by hand, callers
// compose typed clause values and render them with Source(). Every type
// renders the exact JSON shape the search API expects, so the compiled tree
// can be inspected in tests or printed by the CLI before anything is sent.
//
// # Leaf Clauses
//
//	Term{Field: "status", Value: "active"}            // {"term": {"status": "active"}}
//	Terms{Field: "tag", Values: []any{"a", "b"}}      // {"terms": {"tag": ["a", "b"]}}
//	Range{Field: "age", Bounds: []Bound{{GT, 18}}}    // {"range": {"age": {"gt": 18}}}
//	Exists{Field: "email"}                            // {"exists": {"field": "email"}}
//	Wildcard{Field: "name", Value: "*bob*"}           // {"wildcard": {"name": "*bob*"}}
//	Prefix{Field: "sku", Value: "AB-"}                // {"prefix": {"sku": "AB-"}}
//
// # Boolean Groups
//
// Bool is the only compound clause. Children are stored per combinator in
// insertion order:
//
//	root := NewBool()
//	root.AddBool(Must).Add(Term{Field: "status", Value: "active"}, Must)
//	root.AddBool(Should).Add(Range{...}, Must)
//
// # Requests
//
// Search wraps the root group together with size, from, sort, stored fields
// and terms aggregations and renders the request body.
//
// # Re-parsing
//
// Parse reads a rendered clause back into typed values. Rendering the parsed
// tree again yields the same structure, which lets tests and tooling treat
// serialized queries as data.
package esdsl

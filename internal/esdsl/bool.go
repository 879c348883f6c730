package esdsl

import "fmt"

// Combinator selects which list of a bool query a child is placed in.
type Combinator int

// Combinators in rendering order.
const (
	Must Combinator = iota
	MustNot
	Should
	Filter
)

// Combinators lists every combinator in the order Bool renders them.
var Combinators = []Combinator{Must, MustNot, Should, Filter}

var combinatorNames = [...]string{
	Must:    "must",
	MustNot: "must_not",
	Should:  "should",
	Filter:  "filter",
}

// String returns the query DSL key for the combinator.
func (c Combinator) String() string {
	if c < 0 || int(c) >= len(combinatorNames) {
		return fmt.Sprintf("Combinator(%d)", int(c))
	}
	return combinatorNames[c]
}

// Valid reports whether c is one of the four known combinators.
func (c Combinator) Valid() bool {
	return c >= Must && c <= Filter
}

// ParseCombinator resolves a query DSL key (must, must_not, should, filter).
func ParseCombinator(s string) (Combinator, error) {
	for _, c := range Combinators {
		if combinatorNames[c] == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("esdsl: unknown bool combinator %q", s)
}

// Bool is a boolean query: an ordered container of clauses and nested
// groups, each tagged with a combinator. Bool is append-only; nothing
// removes or rewrites a child once added.
type Bool struct {
	children [len(combinatorNames)][]Clause
}

// NewBool returns an empty bool query.
func NewBool() *Bool {
	return &Bool{}
}

// Add appends clause under combinator c and returns the receiver.
// Unknown combinators are treated as Must.
func (b *Bool) Add(clause Clause, c Combinator) *Bool {
	if !c.Valid() {
		c = Must
	}
	b.children[c] = append(b.children[c], clause)
	return b
}

// AddBool creates a new empty group, attaches it under combinator c and
// returns the new group.
func (b *Bool) AddBool(c Combinator) *Bool {
	child := NewBool()
	b.Add(child, c)
	return child
}

// Clauses returns the children stored under combinator c.
func (b *Bool) Clauses(c Combinator) []Clause {
	if !c.Valid() {
		return nil
	}
	return b.children[c]
}

// Len returns the number of direct children across all combinators.
func (b *Bool) Len() int {
	n := 0
	for _, list := range b.children {
		n += len(list)
	}
	return n
}

// IsEmpty reports whether the group has no children.
func (b *Bool) IsEmpty() bool {
	return b.Len() == 0
}

// Source renders {"bool": {"must": [...], "must_not": [...], ...}}.
// Empty combinator lists are omitted.
func (b *Bool) Source() map[string]any {
	body := make(map[string]any)
	for _, c := range Combinators {
		list := b.children[c]
		if len(list) == 0 {
			continue
		}
		rendered := make([]any, len(list))
		for i, clause := range list {
			rendered[i] = clause.Source()
		}
		body[c.String()] = rendered
	}
	return map[string]any{"bool": body}
}

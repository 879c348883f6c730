package quarry

import (
	"fmt"
	"strings"

	"github.com/pthm/quarry/internal/esdsl"
)

// Operator is a relational comparison accepted by Where.
type Operator int

// Supported operators.
const (
	OpEq Operator = iota + 1
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNotIn
	OpLike
	OpNotLike
)

// operators maps every accepted spelling to its operator. "!=" and "<>"
// are synonyms.
var operators = map[string]Operator{
	"=":        OpEq,
	"!=":       OpNe,
	"<>":       OpNe,
	">":        OpGt,
	">=":       OpGte,
	"<":        OpLt,
	"<=":       OpLte,
	"in":       OpIn,
	"not in":   OpNotIn,
	"like":     OpLike,
	"not like": OpNotLike,
}

var operatorNames = map[Operator]string{
	OpEq:      "=",
	OpNe:      "!=",
	OpGt:      ">",
	OpGte:     ">=",
	OpLt:      "<",
	OpLte:     "<=",
	OpIn:      "in",
	OpNotIn:   "not in",
	OpLike:    "like",
	OpNotLike: "not like",
}

// rangeOps maps the comparison operators to range bounds.
var rangeOps = map[Operator]esdsl.RangeOp{
	OpGt:  esdsl.GT,
	OpGte: esdsl.GTE,
	OpLt:  esdsl.LT,
	OpLte: esdsl.LTE,
}

// ParseOperator resolves an operator spelling. Word operators are matched
// case-insensitively ("NOT IN" is accepted).
func ParseOperator(s string) (Operator, error) {
	key := s
	if _, ok := operators[key]; !ok {
		key = strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	if op, ok := operators[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedOperator, s)
}

// String returns the canonical spelling.
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// IsRange reports whether the operator compiles to a range clause.
func (o Operator) IsRange() bool {
	_, ok := rangeOps[o]
	return ok
}

// Operators returns every accepted spelling.
func Operators() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	return names
}

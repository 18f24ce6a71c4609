// Package query parses the wire filter and sort grammar into a tagged
// expression tree and compiles the tree into parameterized SQL over the
// content/attributes layout.
package query

// Op is a comparison operator in a filter expression.
type Op int

const (
	OpEq Op = iota
	OpNot
	OpIn
	OpNotIn
	OpLt
	OpLte
	OpGt
	OpGte
	OpBetween
	OpNotBetween
	OpLike
	OpNull
	OpNotNull
	// OpContains matches membership in a comma-joined list value. It is
	// produced for relation field equality and by the relation resolver;
	// it has no wire spelling of its own.
	OpContains
)

var opLabels = map[Op]string{
	OpEq:         "eq",
	OpNot:        "not",
	OpIn:         "in",
	OpNotIn:      "not_in",
	OpLt:         "lt",
	OpLte:        "lte",
	OpGt:         "gt",
	OpGte:        "gte",
	OpBetween:    "between",
	OpNotBetween: "not_between",
	OpLike:       "like",
	OpNull:       "null",
	OpNotNull:    "not_null",
	OpContains:   "contains",
}

func (op Op) String() string {
	if s, ok := opLabels[op]; ok {
		return s
	}
	return "unknown"
}

// Expr is a node in a filter expression tree.
type Expr interface {
	exprNode()
}

// Compare is a leaf comparison of one field against an operand. Value holds
// the operand for unary-operand operators; Values holds the operand list
// for in, not_in, between and not_between.
type Compare struct {
	Field  string
	Op     Op
	Value  string
	Values []string
}

// And joins subexpressions conjunctively.
type And struct {
	Exprs []Expr
}

// Or joins subexpressions disjunctively.
type Or struct {
	Exprs []Expr
}

func (*Compare) exprNode() {}
func (*And) exprNode()     {}
func (*Or) exprNode()      {}

// Conjoin returns left AND right, flattening into an existing And and
// treating a nil side as absent.
func Conjoin(left, right Expr) Expr {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	if a, ok := left.(*And); ok {
		return &And{Exprs: append(append([]Expr{}, a.Exprs...), right)}
	}
	return &And{Exprs: []Expr{left, right}}
}

package query

import (
	"fmt"
	"strings"

	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/sqlutil"
)

// Core content-row fields addressable in filters and sorts. Everything else
// routes to the attributes table.
var coreFields = map[string]bool{
	"id":           true,
	"locale":       true,
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
}

// Date-valued core fields compare by calendar date for equality and ordered
// operators. Set membership still compares the raw stored instant.
var coreDateFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
}

// Predicate is a compiled SQL condition with its bound arguments.
type Predicate struct {
	Cond string
	Args []any
}

// Compiler compiles expression trees against one collection's schema.
type Compiler struct {
	fields schema.FieldSet
}

// NewCompiler builds a compiler over the collection's field definitions.
func NewCompiler(fields []schema.Field) *Compiler {
	return &Compiler{fields: schema.NewFieldSet(fields)}
}

// Compile turns an expression tree into a parameterized condition. A nil
// expression compiles to a nil predicate.
func (c *Compiler) Compile(e Expr) (*Predicate, error) {
	if e == nil {
		return nil, nil
	}
	cond, args, err := c.compileExpr(e)
	if err != nil {
		return nil, err
	}
	return &Predicate{Cond: cond, Args: args}, nil
}

func (c *Compiler) compileExpr(e Expr) (string, []any, error) {
	switch node := e.(type) {
	case *Compare:
		return c.compileCompare(node)
	case *And:
		return c.compileJoin(node.Exprs, " AND ")
	case *Or:
		return c.compileJoin(node.Exprs, " OR ")
	}
	return "", nil, fmt.Errorf("%w: unsupported expression node %T", ErrMalformedFilter, e)
}

func (c *Compiler) compileJoin(exprs []Expr, sep string) (string, []any, error) {
	var conds []string
	var args []any
	for _, e := range exprs {
		cond, a, err := c.compileExpr(e)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
		args = append(args, a...)
	}
	return "(" + strings.Join(conds, sep) + ")", args, nil
}

func (c *Compiler) compileCompare(cmp *Compare) (string, []any, error) {
	if coreFields[cmp.Field] {
		return compileCore(cmp)
	}
	f, ok := c.fields.Lookup(cmp.Field)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, cmp.Field)
	}
	return compileAttribute(cmp, f)
}

func compileCore(cmp *Compare) (string, []any, error) {
	col := "content." + cmp.Field
	byDate := coreDateFields[cmp.Field]

	ordered := func(op string) (string, []any, error) {
		if byDate {
			return fmt.Sprintf("date(%s) %s date(?)", col, op), []any{cmp.Value}, nil
		}
		return fmt.Sprintf("%s %s ?", col, op), []any{cmp.Value}, nil
	}

	switch cmp.Op {
	case OpEq:
		return ordered("=")
	case OpLt:
		return ordered("<")
	case OpLte:
		return ordered("<=")
	case OpGt:
		return ordered(">")
	case OpGte:
		return ordered(">=")
	case OpNot:
		return col + " != ?", []any{cmp.Value}, nil
	case OpIn:
		ph, args := sqlutil.InClauseArgs(cmp.Values)
		return col + " IN (" + ph + ")", args, nil
	case OpNotIn:
		ph, args := sqlutil.InClauseArgs(cmp.Values)
		return col + " NOT IN (" + ph + ")", args, nil
	case OpBetween:
		return col + " BETWEEN ? AND ?", []any{cmp.Values[0], cmp.Values[1]}, nil
	case OpNotBetween:
		return col + " NOT BETWEEN ? AND ?", []any{cmp.Values[0], cmp.Values[1]}, nil
	}
	return "", nil, fmt.Errorf("%w: operator %s not supported on core field %q", ErrMalformedFilter, cmp.Op, cmp.Field)
}

const attributeMatch = "a.content_id = content.id AND a.field_name = ? AND a.deleted_at IS NULL"

func compileAttribute(cmp *Compare, f schema.Field) (string, []any, error) {
	// The null sentinels test for the presence of a live, non-empty row
	// rather than comparing its value.
	switch cmp.Op {
	case OpNull:
		return "NOT EXISTS (SELECT 1 FROM attributes a WHERE " + attributeMatch + " AND a.value != '')",
			[]any{cmp.Field}, nil
	case OpNotNull:
		return "EXISTS (SELECT 1 FROM attributes a WHERE " + attributeMatch + " AND a.value != '')",
			[]any{cmp.Field}, nil
	}

	valueCond, args, err := attributeValueCond(cmp, f)
	if err != nil {
		return "", nil, err
	}
	cond := "EXISTS (SELECT 1 FROM attributes a WHERE " + attributeMatch + " AND " + valueCond + ")"
	return cond, append([]any{cmp.Field}, args...), nil
}

// attributeValueCond builds the value comparison inside an attribute
// subquery. Equality, ordered comparisons and set membership are typed:
// numeric fields compare as REAL, date fields by calendar date, so a
// stored "10.0" matches both eq "10" and in "10". Like compares the raw
// stored string. Relation equality is membership in the comma-joined id
// list.
func attributeValueCond(cmp *Compare, f schema.Field) (string, []any, error) {
	lhs, rhs := "a.value", "?"
	switch f.Type {
	case schema.TypeNumber:
		lhs, rhs = "CAST(a.value AS REAL)", "CAST(? AS REAL)"
	case schema.TypeDate:
		lhs, rhs = "date(a.value)", "date(?)"
	}

	listContains := func(v string) (string, []any, error) {
		return "instr(',' || a.value || ',', ',' || ? || ',') > 0", []any{v}, nil
	}

	switch cmp.Op {
	case OpEq:
		if f.Type == schema.TypeRelation {
			return listContains(cmp.Value)
		}
		return lhs + " = " + rhs, []any{cmp.Value}, nil
	case OpContains:
		return listContains(cmp.Value)
	case OpNot:
		return lhs + " != " + rhs, []any{cmp.Value}, nil
	case OpLt:
		return lhs + " < " + rhs, []any{cmp.Value}, nil
	case OpLte:
		return lhs + " <= " + rhs, []any{cmp.Value}, nil
	case OpGt:
		return lhs + " > " + rhs, []any{cmp.Value}, nil
	case OpGte:
		return lhs + " >= " + rhs, []any{cmp.Value}, nil
	case OpBetween:
		return lhs + " BETWEEN " + rhs + " AND " + rhs, []any{cmp.Values[0], cmp.Values[1]}, nil
	case OpNotBetween:
		return lhs + " NOT BETWEEN " + rhs + " AND " + rhs, []any{cmp.Values[0], cmp.Values[1]}, nil
	case OpIn:
		ph, args := typedInArgs(cmp.Values, rhs)
		return lhs + " IN (" + ph + ")", args, nil
	case OpNotIn:
		ph, args := typedInArgs(cmp.Values, rhs)
		return lhs + " NOT IN (" + ph + ")", args, nil
	case OpLike:
		return "a.value LIKE ?", []any{"%" + cmp.Value + "%"}, nil
	}
	return "", nil, fmt.Errorf("%w: operator %s not supported on field %q", ErrMalformedFilter, cmp.Op, cmp.Field)
}

// typedInArgs expands values into IN-clause placeholders using the field's
// typed rhs. An empty list yields "NULL" so IN (NULL) matches nothing.
func typedInArgs(values []string, rhs string) (string, []any) {
	if len(values) == 0 {
		return "NULL", nil
	}
	phs := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		phs[i] = rhs
		args[i] = v
	}
	return strings.Join(phs, ", "), args
}

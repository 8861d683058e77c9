package nodes

import (
	"fmt"

	"github.com/bawdo/wherekit/render"
)

// Inequality is an ordering or not-equal comparison operator.
type Inequality int

const (
	LessThan Inequality = iota
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	NotEqual
)

var inequalitySQL = [...]string{
	LessThan:         "<",
	LessThanEqual:    "<=",
	GreaterThan:      ">",
	GreaterThanEqual: ">=",
	NotEqual:         "<>",
}

func (op Inequality) String() string {
	if op < 0 || int(op) >= len(inequalitySQL) {
		panic(fmt.Sprintf("wherekit: unknown inequality operator %d", int(op)))
	}
	return inequalitySQL[op]
}

// InequalityPredicate is expr <op> value.
type InequalityPredicate struct {
	Combinable
	Expr  Expression
	Op    Inequality
	Value Expression
}

// Compare creates expr <op> value over operands of the same SQL type.
func Compare[T any](expr TypedExpression[T], op Inequality, value TypedExpression[T]) *InequalityPredicate {
	n := &InequalityPredicate{Expr: expr, Op: op, Value: value}
	n.self = n
	return n
}

func (n *InequalityPredicate) ToSQL(ctx *render.Context) string {
	expr := n.Expr.ToSQL(ctx)
	return expr + " " + n.Op.String() + " " + n.Value.ToSQL(ctx)
}

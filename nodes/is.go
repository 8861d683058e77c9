package nodes

import "github.com/bawdo/wherekit/render"

// IsPredicate is an equality (or, negated, inequality) test between two
// operands of the same SQL type.
type IsPredicate struct {
	Combinable
	Left   Expression
	Right  Expression
	Negate bool
}

// Is creates left = right.
func Is[T any](left, right TypedExpression[T]) *IsPredicate {
	n := &IsPredicate{Left: left, Right: right}
	n.self = n
	return n
}

// IsNot creates left <> right.
func IsNot[T any](left, right TypedExpression[T]) *IsPredicate {
	n := Is(left, right)
	n.Negate = true
	return n
}

func (n *IsPredicate) ToSQL(ctx *render.Context) string {
	op := " = "
	if n.Negate {
		op = " <> "
	}
	left := n.Left.ToSQL(ctx)
	return left + op + n.Right.ToSQL(ctx)
}

// IsNullPredicate tests an expression for NULL.
type IsNullPredicate struct {
	Combinable
	Expr   Expression
	Negate bool
}

// IsNull creates expr IS NULL.
func IsNull(expr Expression) *IsNullPredicate {
	n := &IsNullPredicate{Expr: expr}
	n.self = n
	return n
}

// IsNotNull creates expr IS NOT NULL.
func IsNotNull(expr Expression) *IsNullPredicate {
	n := IsNull(expr)
	n.Negate = true
	return n
}

func (n *IsNullPredicate) ToSQL(ctx *render.Context) string {
	if n.Negate {
		return n.Expr.ToSQL(ctx) + " IS NOT NULL"
	}
	return n.Expr.ToSQL(ctx) + " IS NULL"
}

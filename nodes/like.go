package nodes

import "github.com/bawdo/wherekit/render"

// LikePredicate is a LIKE (or NOT LIKE) pattern match.
type LikePredicate struct {
	Combinable
	Expr    Expression
	Pattern Expression
	Negate  bool
}

// Like creates expr LIKE pattern.
func Like[T any](expr, pattern TypedExpression[T]) *LikePredicate {
	n := &LikePredicate{Expr: expr, Pattern: pattern}
	n.self = n
	return n
}

// NotLike creates expr NOT LIKE pattern.
func NotLike[T any](expr, pattern TypedExpression[T]) *LikePredicate {
	n := Like(expr, pattern)
	n.Negate = true
	return n
}

func (n *LikePredicate) ToSQL(ctx *render.Context) string {
	keyword := " LIKE "
	if n.Negate {
		keyword = " NOT LIKE "
	}
	expr := n.Expr.ToSQL(ctx)
	return expr + keyword + n.Pattern.ToSQL(ctx)
}

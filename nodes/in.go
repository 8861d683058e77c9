package nodes

import (
	"strings"

	"github.com/bawdo/wherekit/render"
)

// InPredicate is a set membership test. An empty IN set renders the
// always-false 1 = 0, and an empty NOT IN set the always-true 1 = 1, so the
// output is valid SQL for every input.
type InPredicate struct {
	Combinable
	Expr   Expression
	Vals   []Expression
	Negate bool
}

// In creates expr IN (vals...).
func In[T any](expr TypedExpression[T], vals ...TypedExpression[T]) *InPredicate {
	erased := make([]Expression, len(vals))
	for i, v := range vals {
		erased[i] = v
	}
	n := &InPredicate{Expr: expr, Vals: erased}
	n.self = n
	return n
}

// NotIn creates expr NOT IN (vals...).
func NotIn[T any](expr TypedExpression[T], vals ...TypedExpression[T]) *InPredicate {
	n := In(expr, vals...)
	n.Negate = true
	return n
}

func (n *InPredicate) ToSQL(ctx *render.Context) string {
	if len(n.Vals) == 0 {
		if n.Negate {
			return "1 = 1"
		}
		return "1 = 0"
	}
	expr := n.Expr.ToSQL(ctx)
	vals := make([]string, len(n.Vals))
	for i, v := range n.Vals {
		vals[i] = v.ToSQL(ctx)
	}
	keyword := " IN ("
	if n.Negate {
		keyword = " NOT IN ("
	}
	return expr + keyword + strings.Join(vals, ", ") + ")"
}

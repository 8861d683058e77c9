package nodes

import (
	"fmt"

	"github.com/bawdo/wherekit/render"
)

// InRangeBounds selects which interval endpoints are inclusive.
type InRangeBounds int

const (
	ExcludeBoth  InRangeBounds = iota // from < x < to
	IncludeBoth                       // from <= x <= to
	ExcludeLeft                       // from < x <= to
	ExcludeRight                      // from <= x < to
)

var inRangeBoundsNames = [...]string{
	ExcludeBoth:  "ExcludeBoth",
	IncludeBoth:  "IncludeBoth",
	ExcludeLeft:  "ExcludeLeft",
	ExcludeRight: "ExcludeRight",
}

func (b InRangeBounds) String() string {
	if b < 0 || int(b) >= len(inRangeBoundsNames) {
		panic(fmt.Sprintf("wherekit: unknown range bounds %d", int(b)))
	}
	return inRangeBoundsNames[b]
}

// operators returns the lower and upper comparison operators.
func (b InRangeBounds) operators() (string, string) {
	switch b {
	case ExcludeBoth:
		return ">", "<"
	case IncludeBoth:
		return ">=", "<="
	case ExcludeLeft:
		return ">", "<="
	case ExcludeRight:
		return ">=", "<"
	default:
		panic(fmt.Sprintf("wherekit: unknown range bounds %d", int(b)))
	}
}

// InRangePredicate tests that an expression lies within [from, to], with
// endpoint inclusivity chosen by Bounds. It renders as a conjunction of two
// comparisons.
type InRangePredicate struct {
	Combinable
	Expr   Expression
	From   Expression
	To     Expression
	Bounds InRangeBounds
}

// InRange creates a range test over operands of the same SQL type.
func InRange[T any](expr, from, to TypedExpression[T], bounds InRangeBounds) *InRangePredicate {
	n := &InRangePredicate{Expr: expr, From: from, To: to, Bounds: bounds}
	n.self = n
	return n
}

func (n *InRangePredicate) ToSQL(ctx *render.Context) string {
	lower, upper := n.Bounds.operators()
	left := n.Expr.ToSQL(ctx) + " " + lower + " " + n.From.ToSQL(ctx)
	right := n.Expr.ToSQL(ctx) + " " + upper + " " + n.To.ToSQL(ctx)
	return left + " AND " + right
}

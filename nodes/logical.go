package nodes

import "github.com/bawdo/wherekit/render"

// AndPredicate is a binary conjunction. It always renders parenthesised so
// that nesting depth never changes precedence.
type AndPredicate struct {
	Combinable
	Left  Predicate
	Right Predicate
}

// And creates (left AND right).
func And(left, right Predicate) *AndPredicate {
	n := &AndPredicate{Left: left, Right: right}
	n.self = n
	return n
}

func (n *AndPredicate) ToSQL(ctx *render.Context) string {
	left := n.Left.ToSQL(ctx)
	right := n.Right.ToSQL(ctx)
	return "(" + left + " AND " + right + ")"
}

// OrPredicate is a binary disjunction, always parenthesised.
type OrPredicate struct {
	Combinable
	Left  Predicate
	Right Predicate
}

// Or creates (left OR right).
func Or(left, right Predicate) *OrPredicate {
	n := &OrPredicate{Left: left, Right: right}
	n.self = n
	return n
}

func (n *OrPredicate) ToSQL(ctx *render.Context) string {
	left := n.Left.ToSQL(ctx)
	right := n.Right.ToSQL(ctx)
	return "(" + left + " OR " + right + ")"
}

// ExcludePredicate negates its inner predicate.
type ExcludePredicate struct {
	Combinable
	Inner Predicate
}

// Exclude creates NOT (inner).
func Exclude(inner Predicate) *ExcludePredicate {
	n := &ExcludePredicate{Inner: inner}
	n.self = n
	return n
}

func (n *ExcludePredicate) ToSQL(ctx *render.Context) string {
	return "NOT (" + n.Inner.ToSQL(ctx) + ")"
}

// AllOf folds preds left to right with And. It returns nil for no
// predicates and the predicate itself for one. Nil entries are skipped.
func AllOf(preds ...Predicate) Predicate {
	return fold(preds, func(l, r Predicate) Predicate { return And(l, r) })
}

// AnyOf folds preds left to right with Or, with the same edge cases as
// AllOf.
func AnyOf(preds ...Predicate) Predicate {
	return fold(preds, func(l, r Predicate) Predicate { return Or(l, r) })
}

func fold(preds []Predicate, join func(l, r Predicate) Predicate) Predicate {
	var result Predicate
	for _, p := range preds {
		if p == nil {
			continue
		}
		if result == nil {
			result = p
			continue
		}
		result = join(result, p)
	}
	return result
}

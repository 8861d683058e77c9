// Package nodes defines the expression model and the predicate algebra:
// typed column and value expressions, predicate nodes that render
// themselves through a render.Context, and the GROUP BY list.
//
// Every node is immutable once constructed, so a node may be shared by any
// number of parent trees and read from any number of goroutines. Only the
// render.Context passed to ToSQL is mutated during rendering.
package nodes

import "github.com/bawdo/wherekit/render"

// Expression is a type-erased, shareable SQL fragment. It is what a typed
// expression becomes wherever its value type no longer matters.
type Expression interface {
	ToSQL(ctx *render.Context) string
}

// TypedExpression is an Expression known to produce SQL values of type T.
// Predicate constructors take TypedExpression[T] operands so that mismatched
// operand types are rejected by the compiler.
type TypedExpression[T any] interface {
	Expression
	sqlType() T
}

// Predicate is a boolean SQL condition. All predicate kinds embed
// Combinable, which supplies the And, Or and Exclude composition methods.
type Predicate interface {
	Expression
	And(other Predicate) *AndPredicate
	Or(other Predicate) *OrPredicate
	Exclude() *ExcludePredicate
}

// Upcast erases the value type of e. Go converts implicitly as well; this
// spelling exists for call sites that want to be explicit about it.
func Upcast[T any](e TypedExpression[T]) Expression {
	return e
}

// phantom is embedded by typed expressions to carry T.
type phantom[T any] struct{}

func (phantom[T]) sqlType() T {
	var zero T
	return zero
}

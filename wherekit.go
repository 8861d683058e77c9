// Package wherekit builds typed SQL predicates and renders them with
// dialect-correct bind placeholders.
//
// This package re-exports commonly used types and functions from
// subpackages for convenience. Advanced users can import subpackages
// directly:
//   - github.com/bawdo/wherekit/nodes (expressions and predicates)
//   - github.com/bawdo/wherekit/adapters (placeholder dialects)
//   - github.com/bawdo/wherekit/render (rendering context)
//   - github.com/bawdo/wherekit/managers (SELECT and DELETE builders)
//   - github.com/bawdo/wherekit/plugins (statement transformers)
//   - github.com/bawdo/wherekit/filter (JSON filter documents)
package wherekit

import (
	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/managers"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/render"
)

// --- Core types ---

type (
	Expression = nodes.Expression
	Predicate  = nodes.Predicate
	Table      = nodes.Table
	GroupBy    = nodes.GroupBy
	Adapter    = adapters.Adapter
)

// --- Adapters ---

// Postgres renders $1, $2, ... placeholders.
var Postgres adapters.Adapter = adapters.Postgres{}

// MySQL renders ? placeholders.
var MySQL adapters.Adapter = adapters.MySQL{}

// SQLite renders ? placeholders and binds booleans as integers.
var SQLite adapters.Adapter = adapters.SQLite{}

// --- Constructors ---

// NewTable creates a new table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// Col creates a column reference of type T on table.
func Col[T any](table *nodes.Table, name string) *nodes.Field[T] {
	return nodes.Col[T](table, name)
}

// Val wraps v as a bound operand.
func Val[T any](v T) *nodes.Value[T] {
	return nodes.Val(v)
}

// Raw creates a verbatim SQL expression of type T.
//
// SECURITY: the text is injected as-is. Never pass user input.
func Raw[T any](sql string) *nodes.RawExpression[T] {
	return nodes.Raw[T](sql)
}

// Placeholder creates an explicitly numbered bind placeholder.
func Placeholder[T any](idx int) *nodes.ExplicitPlaceholder[T] {
	return nodes.Placeholder[T](idx)
}

// AllOf joins predicates with AND.
func AllOf(preds ...nodes.Predicate) nodes.Predicate {
	return nodes.AllOf(preds...)
}

// AnyOf joins predicates with OR.
func AnyOf(preds ...nodes.Predicate) nodes.Predicate {
	return nodes.AnyOf(preds...)
}

// GroupByOf creates a GROUP BY expression list.
func GroupByOf(exprs ...nodes.Expression) *nodes.GroupBy {
	return nodes.GroupByOf(exprs...)
}

// NewSelect creates a SelectManager with the given table as FROM.
func NewSelect(from *nodes.Table) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// NewDelete creates a DeleteManager for the given table.
func NewDelete(from *nodes.Table) *managers.DeleteManager {
	return managers.NewDeleteManager(from)
}

// ToFinalSQL renders e for adapter a as a complete, terminated fragment and
// returns it with the values to bind, in the order the adapter expects.
func ToFinalSQL(a adapters.Adapter, e nodes.Expression) (string, []any) {
	ctx := render.NewContext(a)
	return ctx.Finalize(e.ToSQL(ctx))
}

// ToInlineSQL renders e with its bound values inlined as escaped literals.
// The output is for logs and debugging only.
func ToInlineSQL(a adapters.Adapter, e nodes.Expression) string {
	ctx := render.NewContext(a)
	return ctx.FinalizeInline(e.ToSQL(ctx))
}

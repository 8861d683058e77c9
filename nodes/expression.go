package nodes

import "github.com/bawdo/wherekit/render"

// Value is a literal operand. It is always bound through the context and
// never interpolated into the SQL text.
type Value[T any] struct {
	phantom[T]
	V T
}

// Val wraps v as a bound operand.
func Val[T any](v T) *Value[T] {
	return &Value[T]{V: v}
}

func (n *Value[T]) ToSQL(ctx *render.Context) string { return ctx.Bind(n.V) }

// RawExpression is SQL text typed as T and injected verbatim.
//
// SECURITY: the text is never escaped or parameterised. Never build it from
// user input. Text containing a NUL byte panics.
type RawExpression[T any] struct {
	Predications[T]
	phantom[T]
	SQL string
}

// Raw creates a verbatim expression of type T, e.g. Raw[time.Time]("now()").
func Raw[T any](sql string) *RawExpression[T] {
	n := &RawExpression[T]{SQL: render.Verbatim(sql)}
	n.Predications.self = n
	return n
}

func (n *RawExpression[T]) ToSQL(_ *render.Context) string { return render.Verbatim(n.SQL) }

// ExplicitPlaceholder is a bind placeholder whose 1-based index is chosen by
// the caller, who also supplies its value at execution time. Implicitly
// bound values are numbered after the highest explicit index in the
// statement.
type ExplicitPlaceholder[T any] struct {
	phantom[T]
	Index int
}

// Placeholder creates an explicit placeholder for index idx.
func Placeholder[T any](idx int) *ExplicitPlaceholder[T] {
	return &ExplicitPlaceholder[T]{Index: idx}
}

func (n *ExplicitPlaceholder[T]) ToSQL(ctx *render.Context) string {
	ctx.NoteExplicitIndex(n.Index)
	return ctx.Adapter().Placeholder(n.Index)
}

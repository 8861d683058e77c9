package nodes

import (
	"strings"

	"github.com/bawdo/wherekit/render"
)

// GroupBy is the ordered expression list of a GROUP BY clause.
type GroupBy struct {
	by []Expression
}

// GroupByOf creates a GroupBy over exprs, in order.
func GroupByOf(exprs ...Expression) *GroupBy {
	by := make([]Expression, len(exprs))
	copy(by, exprs)
	return &GroupBy{by: by}
}

// By returns a copy of the grouping expressions.
func (g *GroupBy) By() []Expression {
	out := make([]Expression, len(g.by))
	copy(out, g.by)
	return out
}

// ToSQL renders the comma-separated list without the GROUP BY keyword.
func (g *GroupBy) ToSQL(ctx *render.Context) string {
	parts := make([]string, len(g.by))
	for i, e := range g.by {
		parts[i] = e.ToSQL(ctx)
	}
	return strings.Join(parts, ", ")
}

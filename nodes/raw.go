package nodes

import "github.com/bawdo/wherekit/render"

// RawPredicate is an opaque SQL condition rendered verbatim.
//
// SECURITY: nothing is escaped, bound or validated. Malformed SQL surfaces
// only when the database rejects the statement. Never pass user input.
// Text containing a NUL byte panics, at construction and at render.
type RawPredicate struct {
	Combinable
	SQL string
}

// NewRawPredicate creates a verbatim predicate.
func NewRawPredicate(sql string) *RawPredicate {
	n := &RawPredicate{SQL: render.Verbatim(sql)}
	n.self = n
	return n
}

func (n *RawPredicate) ToSQL(_ *render.Context) string { return render.Verbatim(n.SQL) }

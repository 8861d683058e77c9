// Package render holds the single-pass SQL rendering context: it hands out
// internal placeholder markers while a predicate tree is rendered, tracks
// explicitly indexed placeholders, and performs the final substitution of
// markers with adapter tokens.
package render

import (
	"fmt"
	"strings"

	"github.com/bawdo/wherekit/adapters"
)

// Context accumulates bound values for one statement render. It is not safe
// for concurrent use and must not be reused across statements.
type Context struct {
	// implicit is the number of markers handed out by Bind.
	implicit int

	// explicit is the highest caller-supplied placeholder index seen.
	explicit int

	// values holds bound values in Bind order; values[n] belongs to marker n.
	values []any

	adapter adapters.Adapter
}

// NewContext creates a Context for the given adapter. A nil adapter is a
// programming error and panics immediately.
func NewContext(adapter adapters.Adapter) *Context {
	if adapter == nil {
		panic("wherekit: render context requires a non-nil adapter")
	}
	return &Context{adapter: adapter}
}

// Adapter returns the dialect the context renders for.
func (c *Context) Adapter() adapters.Adapter {
	return c.adapter
}

// Bind appends v to the bound values and returns the internal marker that
// stands in for it until Finalize.
func (c *Context) Bind(v any) string {
	if enc, ok := c.adapter.(adapters.ValueEncoder); ok {
		v = enc.EncodeValue(v)
	}
	c.values = append(c.values, v)
	m := marker(c.implicit)
	c.implicit++
	return m
}

// NoteExplicitIndex records that the statement uses the caller-numbered
// placeholder idx (1-based). Implicit placeholders are numbered after the
// highest explicit index.
func (c *Context) NoteExplicitIndex(idx int) {
	if idx < 1 {
		panic(fmt.Sprintf("wherekit: explicit placeholder index must be >= 1, got %d", idx))
	}
	if idx > c.explicit {
		c.explicit = idx
	}
}

// ImplicitCount returns the number of values bound so far.
func (c *Context) ImplicitCount() int { return c.implicit }

// ExplicitCount returns the highest explicit placeholder index noted so far.
func (c *Context) ExplicitCount() int { return c.explicit }

// Values returns a copy of the bound values in bind order.
func (c *Context) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// Finalize replaces every marker in sql with the adapter's token for its
// final index (explicit count + 1 + marker number), appends the statement
// terminator, and returns the values to pass to the driver.
//
// Numbered adapters get values in index order. Positional adapters get them
// in the order their tokens appear in the text.
func (c *Context) Finalize(sql string) (string, []any) {
	numbered := c.adapter.Numbered()
	var args []any
	if numbered {
		args = c.Values()
	} else {
		args = make([]any, 0, len(c.values))
	}

	out := c.substitute(sql, func(n int) string {
		if !numbered {
			args = append(args, c.values[n])
		}
		return c.adapter.Placeholder(c.explicit + 1 + n)
	})
	return out + ";", args
}

// FinalizeInline is Finalize with bound values rendered as SQL literals in
// place of placeholders. The result is meant for logs and debugging only.
func (c *Context) FinalizeInline(sql string) string {
	return c.substitute(sql, func(n int) string {
		return Literal(c.values[n])
	}) + ";"
}

// substitute scans sql once and replaces each marker with replace(n). Every
// issued marker must appear exactly once.
func (c *Context) substitute(sql string, replace func(n int) string) string {
	seen := make([]bool, c.implicit)
	var sb strings.Builder
	sb.Grow(len(sql) + 1)

	rest := sql
	for {
		start := strings.IndexByte(rest, markerDelim)
		if start < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:start])
		n, width := parseMarker(rest[start:])
		if n >= c.implicit {
			panic(fmt.Sprintf("wherekit: placeholder marker %d was never bound (bound %d)", n, c.implicit))
		}
		if seen[n] {
			panic(fmt.Sprintf("wherekit: placeholder marker %d appears more than once", n))
		}
		seen[n] = true
		sb.WriteString(replace(n))
		rest = rest[start+width:]
	}

	for n, ok := range seen {
		if !ok {
			panic(fmt.Sprintf("wherekit: bound value %d has no placeholder in the rendered SQL", n))
		}
	}
	return sb.String()
}

// Package adapters provides the SQL dialect strategies used by the render
// context: placeholder token syntax, identifier quoting, and optional value
// encoding at bind time.
package adapters

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAdapter is returned by ByName for an unrecognised dialect name.
var ErrUnknownAdapter = errors.New("unknown adapter")

// Adapter is a stateless dialect strategy. Implementations must be safe to
// share between any number of render contexts.
type Adapter interface {
	// Name returns the canonical dialect name ("postgres", "mysql", "sqlite").
	Name() string

	// Placeholder returns the bind token for the 1-based parameter index.
	Placeholder(idx int) string

	// Numbered reports whether Placeholder encodes the index ($1, $2) as
	// opposed to a fixed positional token (?).
	Numbered() bool

	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string
}

// ValueEncoder is implemented by adapters that rewrite bound values before
// they are handed to the driver.
type ValueEncoder interface {
	EncodeValue(v any) any
}

// ByName resolves a dialect name (case-insensitive, common aliases
// accepted) to its adapter.
func ByName(name string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return Postgres{}, nil
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
}

// Names lists the canonical adapter names.
func Names() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// Package quoting escapes SQL identifiers and string literals for the
// dialect adapters and for inlined debug output.
package quoting

import "strings"

// DoubleQuote quotes an identifier ANSI-style (PostgreSQL, SQLite).
// Embedded double quotes are doubled.
func DoubleQuote(s string) string {
	return wrap(s, `"`)
}

// Backtick quotes an identifier MySQL-style. Embedded backticks are doubled.
func Backtick(s string) string {
	return wrap(s, "`")
}

// Qualified quotes each dot-free part with quote and joins them with dots,
// skipping empty parts. Qualified(DoubleQuote, "users", "id") is "users"."id".
func Qualified(quote func(string) string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

// StringLiteral renders s as a single-quoted SQL string literal. Single
// quotes are doubled and backslashes escaped (MySQL treats backslash as an
// escape character by default).
//
// SECURITY: only for inlined debug output. Anything that reaches a database
// must go through bind parameters instead.
func StringLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func wrap(s, q string) string {
	return q + strings.ReplaceAll(s, q, q+q) + q
}

package adapters

import "github.com/bawdo/wherekit/internal/quoting"

// SQLite renders positional ? placeholders and double-quoted identifiers.
// SQLite has no boolean storage class, so bound bools are encoded as 0/1.
type SQLite struct{}

var (
	_ Adapter      = SQLite{}
	_ ValueEncoder = SQLite{}
)

func (SQLite) Name() string                  { return "sqlite" }
func (SQLite) Placeholder(_ int) string      { return "?" }
func (SQLite) Numbered() bool                { return false }
func (SQLite) QuoteIdent(name string) string { return quoting.DoubleQuote(name) }

// EncodeValue maps bool to int64 0/1 and leaves everything else unchanged.
func (SQLite) EncodeValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}

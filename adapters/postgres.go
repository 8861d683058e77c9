package adapters

import (
	"strconv"

	"github.com/bawdo/wherekit/internal/quoting"
)

// Postgres renders numbered placeholders ($1, $2, ...) and double-quoted
// identifiers.
type Postgres struct{}

var _ Adapter = Postgres{}

func (Postgres) Name() string                  { return "postgres" }
func (Postgres) Placeholder(idx int) string    { return "$" + strconv.Itoa(idx) }
func (Postgres) Numbered() bool                { return true }
func (Postgres) QuoteIdent(name string) string { return quoting.DoubleQuote(name) }

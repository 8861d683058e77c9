package adapters

import "github.com/bawdo/wherekit/internal/quoting"

// MySQL renders positional ? placeholders and backtick-quoted identifiers.
// It also serves MariaDB.
type MySQL struct{}

var _ Adapter = MySQL{}

func (MySQL) Name() string                  { return "mysql" }
func (MySQL) Placeholder(_ int) string      { return "?" }
func (MySQL) Numbered() bool                { return false }
func (MySQL) QuoteIdent(name string) string { return quoting.Backtick(name) }

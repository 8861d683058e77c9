package nodes

import "github.com/bawdo/wherekit/render"

// Table is a table reference, optionally aliased.
type Table struct {
	Name      string
	AliasName string
}

// NewTable creates a table reference.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// As returns an aliased copy of the table. Columns created from the copy
// are qualified with the alias.
func (t *Table) As(alias string) *Table {
	return &Table{Name: t.Name, AliasName: alias}
}

// RelationName is the name used to qualify columns: the alias if set,
// otherwise the table name.
func (t *Table) RelationName() string {
	if t.AliasName != "" {
		return t.AliasName
	}
	return t.Name
}

// ToSQL renders the table for a FROM clause.
func (t *Table) ToSQL(ctx *render.Context) string {
	a := ctx.Adapter()
	if t.AliasName != "" {
		return render.Verbatim(a.QuoteIdent(t.Name) + " AS " + a.QuoteIdent(t.AliasName))
	}
	return render.Verbatim(a.QuoteIdent(t.Name))
}

// Col creates an untyped column reference. Use the generic Col function
// for columns whose value type is known at compile time.
func (t *Table) Col(name string) *Field[any] {
	return Col[any](t, name)
}

package plugins

import "github.com/bawdo/wherekit/nodes"

// TableRef holds a table referenced by a statement. Relation is used to
// build column references (so aliases are preserved) and Name is the
// underlying table name used for matching.
type TableRef struct {
	Relation *nodes.Table
	Name     string
}

// CollectTables returns the FROM table and every JOIN target of stmt.
func CollectTables(stmt *nodes.SelectStatement) []TableRef {
	tables := stmt.Tables()
	refs := make([]TableRef, 0, len(tables))
	for _, t := range tables {
		refs = append(refs, TableRef{Relation: t, Name: t.Name})
	}
	return refs
}

// DeleteTable returns the target table of stmt, if any.
func DeleteTable(stmt *nodes.DeleteStatement) (TableRef, bool) {
	if stmt.From == nil {
		return TableRef{}, false
	}
	return TableRef{Relation: stmt.From, Name: stmt.From.Name}, true
}

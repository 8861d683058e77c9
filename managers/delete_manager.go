package managers

import (
	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from *nodes.Table) *DeleteManager {
	return &DeleteManager{
		Statement: &nodes.DeleteStatement{From: from},
	}
}

// Where appends conditions to the WHERE clause. Nil conditions are ignored.
func (m *DeleteManager) Where(conditions ...nodes.Predicate) *DeleteManager {
	for _, c := range conditions {
		if c != nil {
			m.Statement.Wheres = append(m.Statement.Wheres, c)
		}
	}
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

func (m *DeleteManager) transformed() (*nodes.DeleteStatement, error) {
	if m.Statement.From == nil {
		return nil, ErrNoTable
	}
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformDelete(stmt)
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// ToSQL applies transformers to a copy of the statement and renders the
// final SQL with its bound values.
func (m *DeleteManager) ToSQL(a adapters.Adapter) (string, []any, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", nil, err
	}
	return toSQLParams(a, stmt)
}

// ToInlineSQL renders the statement with every value inlined, for display.
func (m *DeleteManager) ToInlineSQL(a adapters.Adapter) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return toSQLInline(a, stmt)
}

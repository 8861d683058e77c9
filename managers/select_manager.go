// Package managers provides fluent SELECT and DELETE builders that feed
// predicates into the rendering core and return final SQL with its bound
// parameters.
package managers

import (
	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectStatement and applies transformer plugins before SQL
// generation.
type SelectManager struct {
	treeManager
	Statement *nodes.SelectStatement
}

// NewSelectManager creates a new SelectManager with the given table as FROM.
// If from is nil, the FROM clause is left unset.
func NewSelectManager(from *nodes.Table) *SelectManager {
	return &SelectManager{
		Statement: &nodes.SelectStatement{From: from},
	}
}

// Select sets the projection list, replacing any existing projections.
// No projections renders SELECT *.
func (m *SelectManager) Select(projections ...nodes.Expression) *SelectManager {
	m.Statement.Projections = projections
	return m
}

// From sets or changes the FROM table.
func (m *SelectManager) From(table *nodes.Table) *SelectManager {
	m.Statement.From = table
	return m
}

// Where appends one or more conditions to the WHERE clause. All conditions
// are combined with AllOf when rendered. Nil conditions are ignored.
func (m *SelectManager) Where(conditions ...nodes.Predicate) *SelectManager {
	for _, c := range conditions {
		if c != nil {
			m.Statement.Wheres = append(m.Statement.Wheres, c)
		}
	}
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table *nodes.Table, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	join := &nodes.Join{Type: jt, Table: table}
	m.Statement.Joins = append(m.Statement.Joins, join)
	return &JoinContext{manager: m, join: join}
}

// OuterJoin is a convenience for Join with LeftOuterJoin type.
func (m *SelectManager) OuterJoin(table *nodes.Table) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// Group sets the GROUP BY clause. A nil or empty group clears it.
func (m *SelectManager) Group(g *nodes.GroupBy) *SelectManager {
	m.Statement.Groups = g
	return m
}

// Limit sets the LIMIT value. The value is bound, not inlined.
func (m *SelectManager) Limit(n int) *SelectManager {
	m.Statement.Limit = nodes.Val(int64(n))
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// transformed applies all registered transformers to a copy of the
// statement.
func (m *SelectManager) transformed() (*nodes.SelectStatement, error) {
	stmt := m.Statement.Clone()
	for _, t := range m.transformers {
		var err error
		stmt, err = t.TransformSelect(stmt)
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// ToSQL applies all registered transformers and renders the final SQL for
// adapter a, terminated with ";", together with the bound values in the
// order the adapter expects them.
func (m *SelectManager) ToSQL(a adapters.Adapter) (string, []any, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", nil, err
	}
	return toSQLParams(a, stmt)
}

// ToInlineSQL is like ToSQL but inlines every bound value as an escaped
// literal. The output is for display only.
func (m *SelectManager) ToInlineSQL(a adapters.Adapter) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return toSQLInline(a, stmt)
}

package main

import (
	"fmt"
	"strings"

	"github.com/bawdo/wherekit/filter"
	"github.com/bawdo/wherekit/managers"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/plugins"
)

// queryState is the clause set shared by the render command and the REPL.
type queryState struct {
	table  *nodes.Table
	wheres []nodes.Predicate
	group  []nodes.Expression
	limit  int // 0 means no LIMIT
}

func (q *queryState) addFilter(doc string, cols filter.Resolver) (nodes.Predicate, error) {
	pred, err := filter.Decode([]byte(doc), cols)
	if err != nil {
		return nil, err
	}
	if pred != nil {
		q.wheres = append(q.wheres, pred)
	}
	return pred, nil
}

// setGroup resolves comma or space separated column names.
func (q *queryState) setGroup(list string, cols filter.Resolver) error {
	names := splitNames(list)
	exprs := make([]nodes.Expression, 0, len(names))
	for _, n := range names {
		e, ok := cols.Resolve(n)
		if !ok {
			return fmt.Errorf("%w %q", filter.ErrUnknownColumn, n)
		}
		exprs = append(exprs, e)
	}
	q.group = exprs
	return nil
}

func (q *queryState) selectManager(transformers ...plugins.Transformer) *managers.SelectManager {
	m := managers.NewSelectManager(q.table).Where(q.wheres...)
	if len(q.group) > 0 {
		m.Group(nodes.GroupByOf(q.group...))
	}
	if q.limit > 0 {
		m.Limit(q.limit)
	}
	for _, t := range transformers {
		m.Use(t)
	}
	return m
}

func (q *queryState) deleteManager(transformers ...plugins.Transformer) *managers.DeleteManager {
	m := managers.NewDeleteManager(q.table).Where(q.wheres...)
	for _, t := range transformers {
		m.Use(t)
	}
	return m
}

// resolverFor prefers an explicit whitelist and falls back to accepting any
// plain identifier.
func resolverFor(table *nodes.Table, names []string) filter.Resolver {
	if len(names) > 0 {
		return filter.ColumnsOf(table, names...)
	}
	return filter.AnyColumn{Table: table}
}

func splitNames(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

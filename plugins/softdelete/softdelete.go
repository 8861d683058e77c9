// Package softdelete hides soft-deleted rows from SELECT statements. For
// each table a statement reads from (FROM and every JOIN) it appends
// "<marker> IS NULL", where the marker column defaults to deleted_at.
//
//	m := managers.NewSelectManager(users).Use(softdelete.New())
//	// SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL;
//
// Markers are looked up through a filter.Resolver, the same whitelist that
// guards filter documents. The default scope accepts any plain identifier
// of the referenced table; WithResolver narrows it:
//
//	sd := softdelete.New(
//		softdelete.WithTableColumn("posts", "removed_at"),
//		softdelete.WithResolver(func(ref plugins.TableRef) filter.Resolver {
//			return filter.ColumnsOf(ref.Relation, "removed_at")
//		}),
//	)
//
// A marker the resolver rejects fails the statement with
// filter.ErrUnknownColumn. DELETE statements are never rewritten.
package softdelete

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bawdo/wherekit/filter"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/plugins"
)

// DefaultColumn is the marker column used when none is configured.
const DefaultColumn = "deleted_at"

// Scope returns the resolver the marker column of ref is looked up in.
type Scope func(ref plugins.TableRef) filter.Resolver

// identifiers resolves any plain identifier against the referenced
// relation, keeping aliases intact.
func identifiers(ref plugins.TableRef) filter.Resolver {
	return filter.AnyColumn{Table: ref.Relation}
}

// SoftDelete is a Transformer guarding every referenced table, or only the
// tables it was restricted to.
type SoftDelete struct {
	plugins.BaseTransformer
	marker    string
	overrides map[string]string // table name -> marker
	only      []string          // nil guards every table
	scope     Scope
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the marker used by tables without an override.
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.marker = name }
}

// WithTables guards only the named tables, matched by underlying name so
// aliased references are included.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		if sd.only == nil {
			sd.only = []string{}
		}
		for _, n := range names {
			sd.guard(n)
		}
	}
}

// WithTableColumn sets the marker of one table and guards it.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.overrides == nil {
			sd.overrides = make(map[string]string)
		}
		sd.overrides[table] = column
		sd.guard(table)
	}
}

// WithResolver replaces the scope markers are resolved in.
func WithResolver(scope Scope) Option {
	return func(sd *SoftDelete) { sd.scope = scope }
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{marker: DefaultColumn, scope: identifiers}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

func (sd *SoftDelete) guard(table string) {
	if !slices.Contains(sd.only, table) {
		sd.only = append(sd.only, table)
	}
}

// Marker returns the marker column for table and whether table is guarded.
func (sd *SoftDelete) Marker(table string) (string, bool) {
	if sd.only != nil && !slices.Contains(sd.only, table) {
		return "", false
	}
	if col, ok := sd.overrides[table]; ok {
		return col, true
	}
	return sd.marker, true
}

// TransformSelect appends one IS NULL condition per guarded table.
func (sd *SoftDelete) TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	for _, ref := range plugins.CollectTables(stmt) {
		col, ok := sd.Marker(ref.Name)
		if !ok {
			continue
		}
		expr, ok := sd.scope(ref).Resolve(col)
		if !ok {
			return nil, fmt.Errorf("softdelete: %w %q on %s", filter.ErrUnknownColumn, col, ref.Name)
		}
		stmt.Wheres = append(stmt.Wheres, nodes.PredicationsOf(expr).IsNull())
	}
	return stmt, nil
}

// String describes the configuration: "column: deleted_at", "column: c,
// tables: a, b", or sorted "table.column" pairs once overrides are set.
func (sd *SoftDelete) String() string {
	switch {
	case len(sd.overrides) > 0:
		pairs := make([]string, 0, len(sd.only))
		for _, t := range sd.only {
			col, _ := sd.Marker(t)
			pairs = append(pairs, t+"."+col)
		}
		slices.Sort(pairs)
		return strings.Join(pairs, ", ")
	case sd.only != nil:
		return fmt.Sprintf("column: %s, tables: %s", sd.marker, strings.Join(sd.only, ", "))
	default:
		return "column: " + sd.marker
	}
}

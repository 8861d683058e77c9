package nodes

import (
	"strings"

	"github.com/bawdo/wherekit/render"
)

// JoinType enumerates the supported join kinds.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
)

func (t JoinType) keyword() string {
	if t == LeftOuterJoin {
		return "LEFT OUTER JOIN"
	}
	return "INNER JOIN"
}

// Join joins Table to the statement's FROM relation on a predicate.
type Join struct {
	Type  JoinType
	Table *Table
	On    Predicate
}

func (j *Join) ToSQL(ctx *render.Context) string {
	sql := j.Type.keyword() + " " + j.Table.ToSQL(ctx)
	if j.On != nil {
		sql += " ON " + j.On.ToSQL(ctx)
	}
	return sql
}

// SelectStatement is a single-table SELECT with optional joins. Its WHERE
// conditions are combined with AllOf when rendered.
type SelectStatement struct {
	From        *Table
	Projections []Expression
	Joins       []*Join
	Wheres      []Predicate
	Groups      *GroupBy
	Limit       Expression
}

// Clone returns a copy whose slices can be appended to without affecting
// the receiver. The nodes themselves are shared.
func (s *SelectStatement) Clone() *SelectStatement {
	c := *s
	c.Projections = append([]Expression(nil), s.Projections...)
	c.Joins = append([]*Join(nil), s.Joins...)
	c.Wheres = append([]Predicate(nil), s.Wheres...)
	return &c
}

// Tables returns the FROM table followed by every joined table.
func (s *SelectStatement) Tables() []*Table {
	var out []*Table
	if s.From != nil {
		out = append(out, s.From)
	}
	for _, j := range s.Joins {
		out = append(out, j.Table)
	}
	return out
}

func (s *SelectStatement) ToSQL(ctx *render.Context) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(s.Projections) == 0 {
		sb.WriteString("*")
	} else {
		for i, p := range s.Projections {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.ToSQL(ctx))
		}
	}
	if s.From != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(s.From.ToSQL(ctx))
	}
	for _, j := range s.Joins {
		sb.WriteString(" ")
		sb.WriteString(j.ToSQL(ctx))
	}
	writeWhere(&sb, ctx, s.Wheres)
	if s.Groups != nil && len(s.Groups.by) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(s.Groups.ToSQL(ctx))
	}
	if s.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(s.Limit.ToSQL(ctx))
	}
	return sb.String()
}

// DeleteStatement is a DELETE FROM a single table.
type DeleteStatement struct {
	From   *Table
	Wheres []Predicate
}

// Clone returns a copy with its own WHERE slice.
func (s *DeleteStatement) Clone() *DeleteStatement {
	c := *s
	c.Wheres = append([]Predicate(nil), s.Wheres...)
	return &c
}

func (s *DeleteStatement) ToSQL(ctx *render.Context) string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(s.From.ToSQL(ctx))
	writeWhere(&sb, ctx, s.Wheres)
	return sb.String()
}

func writeWhere(sb *strings.Builder, ctx *render.Context, wheres []Predicate) {
	if where := AllOf(wheres...); where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(where.ToSQL(ctx))
	}
}

// Package filter decodes JSON filter documents into predicate trees.
//
// A document is a Lisp-style list whose head names an operator:
//
//	["and", ["=", "status", "open"], [">=", "age", 18]]
//	["or", ["is null", "deleted_at"], ["in", "role", ["admin", "owner"]]]
//	["range", "score", 0.5, 1, "[)"]
//
// Column names are resolved against a whitelist, so a document can never
// reference a column the caller did not expose. Every literal operand is
// bound as a parameter.
package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/bawdo/wherekit/nodes"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrArity           = errors.New("wrong number of arguments")
	ErrSyntax          = errors.New("malformed filter")
)

// Resolver maps a column name used in a document to the expression it
// stands for.
type Resolver interface {
	Resolve(name string) (nodes.TypedExpression[any], bool)
}

// Columns is the whitelist of columns a document may reference, keyed by
// the name used in the document.
type Columns map[string]nodes.TypedExpression[any]

func (c Columns) Resolve(name string) (nodes.TypedExpression[any], bool) {
	e, ok := c[name]
	return e, ok
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AnyColumn accepts every plain identifier as a column of Table. Use it only
// where documents are trusted to name any column of the table.
type AnyColumn struct {
	Table *nodes.Table
}

func (a AnyColumn) Resolve(name string) (nodes.TypedExpression[any], bool) {
	if !identifier.MatchString(name) {
		return nil, false
	}
	return nodes.Col[any](a.Table, name), true
}

// ColumnsOf exposes the named columns of table under their own names.
func ColumnsOf(table *nodes.Table, names ...string) Columns {
	cols := make(Columns, len(names))
	for _, n := range names {
		cols[n] = table.Col(n)
	}
	return cols
}

// opKind describes how an operator's arguments are laid out.
type opKind byte

const (
	opLogical opKind = iota + 1 // variadic predicates
	opNot                       // one predicate
	opCompare                   // column, value
	opNull                      // column
	opSet                       // column, list of values
	opBetween                   // column, from, to
	opRange                     // column, from, to, bounds
)

var ops = map[string]opKind{
	"and":         opLogical,
	"or":          opLogical,
	"not":         opNot,
	"=":           opCompare,
	"<>":          opCompare,
	"<":           opCompare,
	"<=":          opCompare,
	">":           opCompare,
	">=":          opCompare,
	"like":        opCompare,
	"not like":    opCompare,
	"is null":     opNull,
	"is not null": opNull,
	"in":          opSet,
	"not in":      opSet,
	"between":     opBetween,
	"range":       opRange,
}

// Operators returns the operator names a document may use, sorted.
func Operators() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var inequalities = map[string]nodes.Inequality{
	"<":  nodes.LessThan,
	"<=": nodes.LessThanEqual,
	">":  nodes.GreaterThan,
	">=": nodes.GreaterThanEqual,
}

var rangeBounds = map[string]nodes.InRangeBounds{
	"[]": nodes.IncludeBoth,
	"()": nodes.ExcludeBoth,
	"(]": nodes.ExcludeLeft,
	"[)": nodes.ExcludeRight,
}

// Decode parses data into a predicate over the columns cols resolves. An empty document or JSON
// null decodes to a nil predicate, meaning no condition.
func Decode(data []byte, cols Resolver) (nodes.Predicate, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	d := decoder{cols: cols}
	return d.predicate("$", data)
}

type decoder struct {
	cols Resolver
}

func (d *decoder) predicate(path string, raw json.RawMessage) (nodes.Predicate, error) {
	if firstByte(raw) != '[' {
		return nil, fmt.Errorf("%s: %w: expected a list, found %s", path, ErrSyntax, abbrev(raw))
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrSyntax, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w: empty list", path, ErrSyntax)
	}
	var name string
	if err := json.Unmarshal(list[0], &name); err != nil {
		return nil, fmt.Errorf("%s[0]: %w: operator must be a string, found %s", path, ErrSyntax, abbrev(list[0]))
	}
	kind, ok := ops[name]
	if !ok {
		return nil, fmt.Errorf("%s[0]: %w %q", path, ErrUnknownOperator, name)
	}
	args := list[1:]
	if err := checkArity(kind, len(args)); err != nil {
		return nil, fmt.Errorf("%s: %q %w", path, name, err)
	}

	switch kind {
	case opLogical:
		return d.logical(path, name, args)
	case opNot:
		inner, err := d.predicate(path+"[1]", args[0])
		if err != nil {
			return nil, err
		}
		return nodes.Exclude(inner), nil
	case opNull:
		col, err := d.column(path+"[1]", args[0])
		if err != nil {
			return nil, err
		}
		if name == "is null" {
			return col.IsNull(), nil
		}
		return col.IsNotNull(), nil
	case opCompare:
		return d.compare(path, name, args)
	case opSet:
		return d.set(path, name, args)
	case opBetween:
		return d.between(path, args, nodes.IncludeBoth)
	default:
		var spec string
		if err := json.Unmarshal(args[3], &spec); err != nil {
			return nil, fmt.Errorf("%s[4]: %w: bounds must be a string", path, ErrSyntax)
		}
		bounds, ok := rangeBounds[spec]
		if !ok {
			return nil, fmt.Errorf("%s[4]: %w: unknown bounds %q", path, ErrSyntax, spec)
		}
		return d.between(path, args[:3], bounds)
	}
}

func checkArity(kind opKind, n int) error {
	var want string
	switch kind {
	case opLogical:
		if n >= 1 {
			return nil
		}
		want = "at least 1"
	case opNot, opNull:
		if n == 1 {
			return nil
		}
		want = "1"
	case opCompare, opSet:
		if n == 2 {
			return nil
		}
		want = "2"
	case opBetween:
		if n == 3 {
			return nil
		}
		want = "3"
	case opRange:
		if n == 4 {
			return nil
		}
		want = "4"
	}
	return fmt.Errorf("%w: want %s, found %d", ErrArity, want, n)
}

func (d *decoder) logical(path, name string, args []json.RawMessage) (nodes.Predicate, error) {
	preds := make([]nodes.Predicate, len(args))
	for i, a := range args {
		p, err := d.predicate(fmt.Sprintf("%s[%d]", path, i+1), a)
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	if name == "and" {
		return nodes.AllOf(preds...), nil
	}
	return nodes.AnyOf(preds...), nil
}

func (d *decoder) compare(path, name string, args []json.RawMessage) (nodes.Predicate, error) {
	col, err := d.column(path+"[1]", args[0])
	if err != nil {
		return nil, err
	}
	v, err := scalar(path+"[2]", args[1])
	if err != nil {
		return nil, err
	}

	switch name {
	case "=":
		if v == nil {
			return col.IsNull(), nil
		}
		return col.Is(v), nil
	case "<>":
		if v == nil {
			return col.IsNotNull(), nil
		}
		return col.IsNot(v), nil
	case "like", "not like":
		if _, ok := v.(string); !ok {
			return nil, fmt.Errorf("%s[2]: %w: pattern must be a string", path, ErrSyntax)
		}
		if name == "like" {
			return col.Like(v), nil
		}
		return col.NotLike(v), nil
	}
	if v == nil {
		return nil, fmt.Errorf("%s[2]: %w: cannot compare with null", path, ErrSyntax)
	}
	return col.Cmp(inequalities[name], v), nil
}

func (d *decoder) set(path, name string, args []json.RawMessage) (nodes.Predicate, error) {
	col, err := d.column(path+"[1]", args[0])
	if err != nil {
		return nil, err
	}
	if firstByte(args[1]) != '[' {
		return nil, fmt.Errorf("%s[2]: %w: expected a list of values", path, ErrSyntax)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(args[1], &raws); err != nil {
		return nil, fmt.Errorf("%s[2]: %w: %w", path, ErrSyntax, err)
	}
	vals := make([]any, len(raws))
	for i, r := range raws {
		v, err := scalar(fmt.Sprintf("%s[2][%d]", path, i), r)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if name == "in" {
		return col.In(vals...), nil
	}
	return col.NotIn(vals...), nil
}

func (d *decoder) between(path string, args []json.RawMessage, bounds nodes.InRangeBounds) (nodes.Predicate, error) {
	col, err := d.column(path+"[1]", args[0])
	if err != nil {
		return nil, err
	}
	from, err := scalar(path+"[2]", args[1])
	if err != nil {
		return nil, err
	}
	to, err := scalar(path+"[3]", args[2])
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%s: %w: range endpoints cannot be null", path, ErrSyntax)
	}
	return col.InRangeBounded(from, to, bounds), nil
}

// column resolves a column name against the whitelist.
func (d *decoder) column(path string, raw json.RawMessage) (nodes.Predications[any], error) {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return nodes.Predications[any]{}, fmt.Errorf("%s: %w: column must be a string, found %s", path, ErrSyntax, abbrev(raw))
	}
	col, ok := d.cols.Resolve(name)
	if !ok {
		return nodes.Predications[any]{}, fmt.Errorf("%s: %w %q", path, ErrUnknownColumn, name)
	}
	return nodes.PredicationsOf(col), nil
}

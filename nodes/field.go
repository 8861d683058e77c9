package nodes

import (
	"database/sql"
	"time"

	"github.com/bawdo/wherekit/internal/quoting"
	"github.com/bawdo/wherekit/render"
)

// Field is a column reference whose values have SQL type T.
type Field[T any] struct {
	Predications[T]
	phantom[T]
	Relation *Table // nil for an unqualified column
	Name     string
}

// Col creates a column reference of type T on relation (which may be nil).
func Col[T any](relation *Table, name string) *Field[T] {
	f := &Field[T]{Relation: relation, Name: name}
	f.Predications.self = f
	return f
}

// NewField creates an unqualified column reference of type T.
func NewField[T any](name string) *Field[T] {
	return Col[T](nil, name)
}

func (f *Field[T]) ToSQL(ctx *render.Context) string {
	rel := ""
	if f.Relation != nil {
		rel = f.Relation.RelationName()
	}
	return render.Verbatim(quoting.Qualified(ctx.Adapter().QuoteIdent, rel, f.Name))
}

// Column types for the primitive SQL value types.
type (
	BoolField     = Field[bool]
	I8Field       = Field[int8]
	I16Field      = Field[int16]
	I32Field      = Field[int32]
	I64Field      = Field[int64]
	F32Field      = Field[float32]
	F64Field      = Field[float64]
	StringField   = Field[string]
	TimespecField = Field[time.Time]

	NullBoolField     = Field[sql.Null[bool]]
	NullI8Field       = Field[sql.Null[int8]]
	NullI16Field      = Field[sql.Null[int16]]
	NullI32Field      = Field[sql.Null[int32]]
	NullI64Field      = Field[sql.Null[int64]]
	NullF32Field      = Field[sql.Null[float32]]
	NullF64Field      = Field[sql.Null[float64]]
	NullStringField   = Field[sql.Null[string]]
	NullTimespecField = Field[sql.Null[time.Time]]
)

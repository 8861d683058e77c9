package managers

import (
	"errors"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/plugins"
	"github.com/bawdo/wherekit/render"
)

var (
	// ErrNilAdapter is returned by ToSQL when no adapter is supplied.
	ErrNilAdapter = errors.New("wherekit: nil adapter")
	// ErrNoTable is returned when a DELETE has no target table.
	ErrNoTable = errors.New("wherekit: statement has no table")
)

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline common to the Select and Delete managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// sqlNode is the rendering capability shared by every statement.
type sqlNode interface {
	ToSQL(ctx *render.Context) string
}

// toSQLParams renders stmt against a fresh context and finalises it.
func toSQLParams(a adapters.Adapter, stmt sqlNode) (string, []any, error) {
	if a == nil {
		return "", nil, ErrNilAdapter
	}
	ctx := render.NewContext(a)
	sql, params := ctx.Finalize(stmt.ToSQL(ctx))
	return sql, params, nil
}

// toSQLInline renders stmt with its values inlined as literals.
func toSQLInline(a adapters.Adapter, stmt sqlNode) (string, error) {
	if a == nil {
		return "", ErrNilAdapter
	}
	ctx := render.NewContext(a)
	return ctx.FinalizeInline(stmt.ToSQL(ctx)), nil
}

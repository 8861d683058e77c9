// Package plugins defines the Transformer interface for statement
// middleware applied by the managers before rendering.
package plugins

import "github.com/bawdo/wherekit/nodes"

// Transformer rewrites statements before they are rendered. Managers hand
// each transformer a private copy, so appending conditions is safe.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(stmt *nodes.SelectStatement) (*nodes.SelectStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	return s, nil
}

func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}

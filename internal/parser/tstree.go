package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsTree wraps the tree-sitter tree this package hands out as the
// opaque CST (§4.3: the plug-in accepts the full new content and
// reuses unchanged subtrees when old_tree is supplied and the content
// is a small delta).
type tsTree struct {
	tree    *sitter.Tree
	content []byte
}

// Package parser implements the Language Registry (C2), the
// tree-sitter-backed Parser Plug-ins and AST Mapper (C3/C4), and the
// Parser Engine (C5) that orchestrates them, grounded on the teacher's
// internal/parser package (TreeSitterParser, per-language setup
// functions, query+capture extraction) generalized to the uniform
// Node/Edge graph instead of the teacher's symbol-table types.
package parser

import (
	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
)

// CST is the concrete syntax tree produced by a parse, opaque to
// callers outside this package; the Parser Engine caches it per file
// path to drive incremental reparse.
type CST struct {
	tree *tsTree
}

// ParseContext is the input to a parse: file identity, content, and
// optionally a prior tree to reuse for incremental reparse (§3).
// ParseContexts are values; the engine does not retain them.
type ParseContext struct {
	RepoID   string
	FilePath string
	Content  []byte
	OldTree  *CST
}

// ParseResult is the output of a parse: the cached tree plus the
// uniform Node/Edge set the AST Mapper extracted from it (§3).
type ParseResult struct {
	Tree  *CST
	Nodes []*graph.Node
	Edges []graph.Edge
}

// Plugin is the capability set a language parser must provide (§4.3,
// §9 "polymorphism without inheritance" — a tagged capability set, not
// a class hierarchy).
type Plugin interface {
	Language() ids.Language
	Parse(ctx ParseContext) (*ParseResult, error)
}

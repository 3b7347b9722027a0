package parser

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	cieerrors "github.com/codegraph/cie/internal/errors"
	"github.com/codegraph/cie/internal/ids"
)

// treeSitterPlugin is the Parser Plug-in (C3) for one language: a
// tree-sitter parser plus its compiled query, reused across calls the
// way the teacher's TreeSitterParser keeps one *sitter.Parser per
// extension rather than allocating per file.
type treeSitterPlugin struct {
	spec     languageSpec
	tsLang   *sitter.Language
	query    *sitter.Query
	tsParser *sitter.Parser
	mu       sync.Mutex // guards tsParser, which is not safe for concurrent use
}

func newTreeSitterPlugin(spec languageSpec) *treeSitterPlugin {
	tsLang := newSitterLanguage(spec)
	query, _ := sitter.NewQuery(tsLang, spec.Query)

	tsParser := sitter.NewParser()
	_ = tsParser.SetLanguage(tsLang)

	return &treeSitterPlugin{spec: spec, tsLang: tsLang, query: query, tsParser: tsParser}
}

func (p *treeSitterPlugin) Language() ids.Language {
	return p.spec.Language
}

// Parse implements §4.3: parses ctx.Content, reusing ctx.OldTree's
// unchanged subtrees when supplied (incremental reparse), and always
// returns the full Node/Edge set for the resulting tree — the Patch
// Builder (C8), not this plug-in, diffs old vs new into a patch (§4.6).
func (p *treeSitterPlugin) Parse(ctx ParseContext) (*ParseResult, error) {
	var oldTree *sitter.Tree
	if ctx.OldTree != nil && ctx.OldTree.tree != nil {
		oldTree = ctx.OldTree.tree.tree
	}

	p.mu.Lock()
	tree := p.tsParser.Parse(ctx.Content, oldTree)
	p.mu.Unlock()
	if tree == nil {
		return nil, cieerrors.NewParseError(ctx.FilePath, "tree-sitter returned no tree")
	}

	if p.query == nil {
		cst := &CST{tree: &tsTree{tree: tree, content: ctx.Content}}
		return &ParseResult{Tree: cst}, nil
	}

	nodes, edges := extractFile(p.spec, p.query, tree, ctx.Content, ctx.RepoID, ctx.FilePath)
	cst := &CST{tree: &tsTree{tree: tree, content: ctx.Content}}
	return &ParseResult{Tree: cst, Nodes: nodes, Edges: edges}, nil
}

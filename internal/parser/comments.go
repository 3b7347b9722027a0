package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/cie/internal/ids"
)

// CommentSpan is one comment token recovered from a parsed CST, for
// the Content Index's Comment ContentNodes (§4.9: "Comment chunks
// extracted from the CST when the parser tree is available").
type CommentSpan struct {
	Span ids.Span
	Text string
}

// Comments walks tree's root node collecting every grammar node whose
// kind names a comment production. Every tree-sitter grammar in this
// module names comment nodes with "comment" somewhere in the kind
// string (line_comment, block_comment, comment), so one substring
// check covers all eight languages without per-language branching.
func (c *CST) Comments(content []byte) []CommentSpan {
	if c == nil || c.tree == nil || c.tree.tree == nil {
		return nil
	}
	var out []CommentSpan
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if strings.Contains(n.Kind(), "comment") {
			out = append(out, CommentSpan{
				Span: spanOf(n),
				Text: nodeText(n, content),
			})
			return
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(c.tree.tree.RootNode())
	return out
}

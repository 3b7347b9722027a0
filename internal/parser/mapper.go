package parser

import (
	"sort"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
)

// captureNodeKinds maps a query's primary capture name (the one with
// no "." suffix) to the NodeKind the AST Mapper emits for it.
var captureNodeKinds = map[string]ids.NodeKind{
	"function":  ids.NodeKindFunction,
	"method":    ids.NodeKindMethod,
	"class":     ids.NodeKindClass,
	"struct":    ids.NodeKindStruct,
	"enum":      ids.NodeKindEnum,
	"interface": ids.NodeKindInterface,
	"impl":      ids.NodeKindImpl,
	"variable":  ids.NodeKindVariable,
	"call":      ids.NodeKindCall,
	"import":    ids.NodeKindImport,
	"attribute": ids.NodeKindAttribute,
}

// rawCapture is one query match's primary node plus whichever
// ".name"/".source"/".symbol" sub-captures accompanied it.
type rawCapture struct {
	kind ids.NodeKind
	node *sitter.Node
	name string // resolved display name (identifier text, or decorator/import source text as fallback)
	attr map[string]string
}

// extractFile runs the language's query over tree and produces the
// uniform Node/Edge set for one file (C4). It always emits exactly one
// Module node spanning the whole file (§4.3) and a Contains edge from
// the nearest enclosing construct to every other node, computed by
// byte-span containment over the sorted captures rather than a second
// CST walk (§9 "polymorphism without inheritance" extends naturally
// to "no second traversal" here: the query already visited every
// node we care about).
func extractFile(spec languageSpec, query *sitter.Query, tree *sitter.Tree, content []byte, repoID, filePath string) ([]*graph.Node, []graph.Edge) {
	root := tree.RootNode()
	moduleName := strings.TrimSuffix(filePath, fileExt(filePath))
	moduleSpan := spanOf(root)
	moduleID := ids.NewNodeId(repoID, filePath, spec.Language, ids.NodeKindModule, moduleName, moduleSpan.ByteStart, moduleSpan.ByteEnd)
	moduleNode := &graph.Node{
		ID: moduleID, RepoID: repoID, Kind: ids.NodeKindModule, Name: moduleName,
		Language: spec.Language, File: filePath, Span: moduleSpan,
		Metadata: map[string]any{},
	}

	captures := collectCaptures(query, root, content)
	sort.SliceStable(captures, func(i, j int) bool {
		if captures[i].node.StartByte() != captures[j].node.StartByte() {
			return captures[i].node.StartByte() < captures[j].node.StartByte()
		}
		return captures[i].node.EndByte() > captures[j].node.EndByte()
	})

	nodes := []*graph.Node{moduleNode}
	var edges []graph.Edge

	type scope struct {
		id  ids.NodeId
		end uint
	}
	stack := []scope{{id: moduleID, end: root.EndByte()}}

	for _, c := range captures {
		span := spanOf(c.node)
		if c.name == "" || isInvalidCallName(c.kind, c.name) {
			if c.kind != ids.NodeKindCall {
				continue
			}
		}

		for len(stack) > 1 && uint(span.ByteStart) >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		id := ids.NewNodeId(repoID, filePath, spec.Language, c.kind, c.name, span.ByteStart, span.ByteEnd)
		node := &graph.Node{
			ID: id, RepoID: repoID, Kind: c.kind, Name: c.name,
			Language: spec.Language, File: filePath, Span: span,
			Metadata: metadataFor(c),
		}
		nodes = append(nodes, node)
		edges = append(edges, graph.Edge{Source: parent.id, Target: id, Kind: ids.EdgeKindContains})

		switch c.kind {
		case ids.NodeKindCall:
			// Calls never contain further scoped definitions; never pushed.
		case ids.NodeKindImport:
			// Imports are leaves.
		default:
			stack = append(stack, scope{id: id, end: uint(span.ByteEnd)})
		}

		if c.kind == ids.NodeKindFunction || c.kind == ids.NodeKindMethod {
			cyclomatic, depth := cyclomaticComplexity(c.node)
			node.Metadata[graph.MetadataKeyCyclomatic] = cyclomatic
			node.Metadata[graph.MetadataKeyNestingDepth] = depth
		}
	}

	return nodes, edges
}

// isInvalidCallName implements §4.3's "Policy for anonymous/invalid
// references": Call nodes whose name is empty, whitespace, or purely
// punctuation are emitted by the mapper but flagged invalid; the
// resolver (C7) is the one that actually drops them, per §4.7. The
// mapper itself still emits them so the resolver has something to
// filter, matching the spec's division of labor.
func isInvalidCallName(kind ids.NodeKind, name string) bool {
	if kind != ids.NodeKindCall {
		return false
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return true
}

func metadataFor(c rawCapture) map[string]any {
	md := make(map[string]any, len(c.attr))
	for k, v := range c.attr {
		md[k] = v
	}
	return md
}

func collectCaptures(query *sitter.Query, root *sitter.Node, content []byte) []rawCapture {
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	names := query.CaptureNames()
	matches := qc.Matches(query, root, content)

	var out []rawCapture
	for {
		m := matches.Next()
		if m == nil {
			break
		}

		var primary *rawCapture
		attrs := map[string]string{}
		var primaryNode *sitter.Node
		var primaryKind ids.NodeKind
		havePrimary := false

		for _, cap := range m.Captures {
			capNode := cap.Node
			capName := names[cap.Index]
			if dot := strings.IndexByte(capName, '.'); dot >= 0 {
				base, sub := capName[:dot], capName[dot+1:]
				text := nodeText(&capNode, content)
				switch sub {
				case "name", "source":
					attrs["name"] = text
				case "symbol":
					attrs["symbol"] = text
				default:
					attrs[sub] = text
				}
				_ = base
				continue
			}
			if kind, ok := captureNodeKinds[capName]; ok {
				primaryNode = &capNode
				primaryKind = kind
				havePrimary = true
			}
		}

		if !havePrimary {
			continue
		}
		name := attrs["name"]
		if name == "" {
			name = nodeText(primaryNode, content)
		}
		primary = &rawCapture{kind: primaryKind, node: primaryNode, name: name, attr: attrs}
		out = append(out, *primary)
	}
	return out
}

func nodeText(n *sitter.Node, content []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(content) || start > end {
		return ""
	}
	return string(content[start:end])
}

func spanOf(n *sitter.Node) ids.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return ids.NewSpan(int(n.StartByte()), int(n.EndByte()), int(start.Row)+1, int(end.Row)+1, int(start.Column)+1, int(end.Column)+1)
}

func fileExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

// cyclomaticComplexity walks fn's subtree counting branch points
// (if/elif/for/while/case/match-arm/catch/conditional-expression
// equivalents across grammars, matched by a generic Kind() suffix check
// against branchKindSuffixes; logical and/or operators are not counted)
// and the deepest
// nesting of such constructs, the supplemented complexity metric
// (SPEC_FULL, grounded on the original's complexity.rs).
func cyclomaticComplexity(fn *sitter.Node) (cyclomatic int, maxDepth int) {
	cyclomatic = 1
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if isBranchKind(n.Kind()) {
			cyclomatic++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child != nil {
				walk(child, depth)
			}
		}
	}
	walk(fn, 0)
	return cyclomatic, maxDepth
}

var branchKindSuffixes = []string{
	"if_statement", "if_expression", "for_statement", "for_expression",
	"while_statement", "while_expression", "case_statement", "match_arm",
	"catch_clause", "conditional_expression", "elif_clause",
}

func isBranchKind(kind string) bool {
	for _, suffix := range branchKindSuffixes {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}
	return false
}

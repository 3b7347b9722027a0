package graph

import "github.com/codegraph/cie/internal/ids"

// ComplexityReport is the supplemented complexity-metrics operation
// (SPEC_FULL, grounded on the original's
// crates/codeprism-analysis/src/complexity.rs): cyclomatic complexity
// and a nesting-depth metric for a Function/Method node, computed by
// the AST Mapper at parse time and cached in Node.Metadata.
type ComplexityReport struct {
	Cyclomatic   int
	NestingDepth int
}

// MetadataKeyCyclomatic and MetadataKeyNestingDepth are the
// Node.Metadata keys the AST Mapper writes the computed report under,
// as ints.
const (
	MetadataKeyCyclomatic   = "complexity_cyclomatic"
	MetadataKeyNestingDepth = "complexity_nesting_depth"
)

// ComplexityOf reads back the complexity report the mapper stored on
// id's node, if any. Returns ok=false for nodes with no stored report
// (non-function/method kinds, or mappers that did not compute one).
func (s *Store) ComplexityOf(id ids.NodeId) (ComplexityReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok || n.Metadata == nil {
		return ComplexityReport{}, false
	}
	cyc, ok1 := n.Metadata[MetadataKeyCyclomatic].(int)
	depth, ok2 := n.Metadata[MetadataKeyNestingDepth].(int)
	if !ok1 && !ok2 {
		return ComplexityReport{}, false
	}
	return ComplexityReport{Cyclomatic: cyc, NestingDepth: depth}, true
}

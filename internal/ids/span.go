// Package ids provides content-addressed node identity and source-range
// descriptors shared across the parsing, graph, and resolver packages.
package ids

import "fmt"

// Span is an immutable source-range descriptor. Byte offsets are
// zero-based; line and column are one-based. Columns count Unicode scalar
// values after newline normalization to LF.
type Span struct {
	ByteStart int
	ByteEnd   int
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// NewSpan builds a Span, panicking if the byte/line ordering invariants
// (byte_start <= byte_end, start_line <= end_line) do not hold. Mappers
// are expected to compute spans correctly; a violated invariant here is a
// programmer error in the caller, not recoverable input.
func NewSpan(byteStart, byteEnd, startLine, endLine, startCol, endCol int) Span {
	if byteStart > byteEnd {
		panic(fmt.Sprintf("ids: span byte_start %d > byte_end %d", byteStart, byteEnd))
	}
	if startLine > endLine {
		panic(fmt.Sprintf("ids: span start_line %d > end_line %d", startLine, endLine))
	}
	return Span{
		ByteStart: byteStart,
		ByteEnd:   byteEnd,
		StartLine: startLine,
		EndLine:   endLine,
		StartCol:  startCol,
		EndCol:    endCol,
	}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Len reports the byte length covered by the span.
func (s Span) Len() int {
	return s.ByteEnd - s.ByteStart
}

// Contains reports whether other lies entirely within s by byte offset.
func (s Span) Contains(other Span) bool {
	return s.ByteStart <= other.ByteStart && other.ByteEnd <= s.ByteEnd
}

package content

import (
	"strings"

	"github.com/codegraph/cie/internal/ids"
)

// chunkText splits content into line-bounded chunks of at most
// maxLines lines each, computing a byte/line/column Span for every
// chunk. maxLines <= 0 means "one chunk for the whole file."
func chunkText(content string, maxLines int) []ContentChunk {
	if content == "" {
		return nil
	}
	lines := splitKeepEnds(content)
	if maxLines <= 0 || maxLines >= len(lines) {
		return []ContentChunk{wholeChunk(content, lines)}
	}

	var chunks []ContentChunk
	byteOffset := 0
	lineNo := 1
	for start := 0; start < len(lines); start += maxLines {
		end := start + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		var b strings.Builder
		for _, l := range lines[start:end] {
			b.WriteString(l)
		}
		text := b.String()
		span := ids.NewSpan(byteOffset, byteOffset+len(text), lineNo, lineNo+(end-start)-1, 0, 0)
		chunks = append(chunks, ContentChunk{Span: span, Text: text, Metadata: map[string]any{}})
		byteOffset += len(text)
		lineNo += end - start
	}
	return chunks
}

func wholeChunk(content string, lines []string) ContentChunk {
	span := ids.NewSpan(0, len(content), 1, len(lines), 0, 0)
	return ContentChunk{Span: span, Text: content, Metadata: map[string]any{}}
}

// splitKeepEnds splits s into lines, keeping the trailing newline on
// every line but the last, so joining the slice reproduces s exactly
// and byte offsets stay accurate across chunk boundaries.
func splitKeepEnds(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

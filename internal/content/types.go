// Package content implements the Content Index (C10): a store of
// non-code text — documentation, configuration, and comments —
// parallel to the code graph and independently locked, grounded on
// the teacher's internal/semantic stemming/fuzzy-matching helpers and
// the same sync.RWMutex single-writer discipline internal/graph.Store
// uses.
package content

import (
	"github.com/codegraph/cie/internal/ids"
)

// ContentKind distinguishes the four content categories §4.9 names.
type ContentKind int

const (
	ContentKindCode ContentKind = iota
	ContentKindDocumentation
	ContentKindConfiguration
	ContentKindComment
)

func (k ContentKind) String() string {
	switch k {
	case ContentKindCode:
		return "code"
	case ContentKindDocumentation:
		return "documentation"
	case ContentKindConfiguration:
		return "configuration"
	case ContentKindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Format is the non-code file format, detected from extension.
type Format int

const (
	FormatUnknown Format = iota
	FormatMarkdown
	FormatPlainText
	FormatReStructuredText
	FormatAsciiDoc
	FormatHTML
	FormatJSON
	FormatYAML
	FormatTOML
	FormatIni
	FormatProperties
	FormatEnv
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatPlainText:
		return "plaintext"
	case FormatReStructuredText:
		return "rst"
	case FormatAsciiDoc:
		return "asciidoc"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatIni:
		return "ini"
	case FormatProperties:
		return "properties"
	case FormatEnv:
		return "env"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// documentFormats lists the Documentation formats. ClassifyContentType
// does not consult it: any Format not in configFormats is classified as
// Documentation.
var documentFormats = map[Format]bool{
	FormatMarkdown:         true,
	FormatPlainText:        true,
	FormatReStructuredText: true,
	FormatAsciiDoc:         true,
	FormatHTML:             true,
}

var configFormats = map[Format]bool{
	FormatJSON:       true,
	FormatYAML:       true,
	FormatTOML:       true,
	FormatIni:        true,
	FormatProperties: true,
	FormatEnv:        true,
	FormatXML:        true,
}

// ContentType tags a ContentNode per §4.9's closed sum: Code{lang},
// Documentation{format}, Configuration{format}, Comment{lang,context}.
type ContentType struct {
	Kind     ContentKind
	Language ids.Language // set for Code and Comment
	Format   Format       // set for Documentation and Configuration
	Context  string       // set for Comment: the enclosing scope, e.g. "function:Foo"
}

// ContentChunk is one span of text within a ContentNode, with an
// optional structured metadata bag (e.g. a heading level for Markdown,
// a key path for structured configuration).
type ContentChunk struct {
	Span     ids.Span
	Text     string
	Metadata map[string]any
}

// ContentNode is the per-file record the Content Index stores: one
// ContentType, its chunks, and optional back-references into the code
// graph (e.g. the function a Comment chunk documents).
type ContentNode struct {
	Path     string
	Type     ContentType
	Chunks   []ContentChunk
	NodeRefs []ids.NodeId
}

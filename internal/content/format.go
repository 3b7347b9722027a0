package content

import (
	"path/filepath"
	"strings"

	"github.com/codegraph/cie/internal/ids"
)

// extensionFormats implements §4.9's unambiguous-by-extension detection
// rule; any extension not listed here (including none) falls back to
// PlainText.
var extensionFormats = map[string]Format{
	".md":         FormatMarkdown,
	".markdown":   FormatMarkdown,
	".rst":        FormatReStructuredText,
	".adoc":       FormatAsciiDoc,
	".html":       FormatHTML,
	".htm":        FormatHTML,
	".json":       FormatJSON,
	".yaml":       FormatYAML,
	".yml":        FormatYAML,
	".toml":       FormatTOML,
	".ini":        FormatIni,
	".properties": FormatProperties,
	".env":        FormatEnv,
	".xml":        FormatXML,
}

// DetectFormat implements §4.9's format detection rule: by extension
// first, otherwise PlainText.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatPlainText
}

// ClassifyContentType builds the ContentType for path: a recognized
// source language produces Code{lang}; otherwise a detected Format in
// configFormats produces Configuration and every other Format produces
// Documentation.
func ClassifyContentType(path string) ContentType {
	if lang := ids.LanguageFromExtension(strings.ToLower(filepath.Ext(path))); lang != ids.LanguageUnknown {
		return ContentType{Kind: ContentKindCode, Language: lang}
	}
	format := DetectFormat(path)
	if configFormats[format] {
		return ContentType{Kind: ContentKindConfiguration, Format: format}
	}
	return ContentType{Kind: ContentKindDocumentation, Format: format}
}

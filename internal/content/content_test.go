package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"README.md":     FormatMarkdown,
		"notes.rst":     FormatReStructuredText,
		"guide.adoc":    FormatAsciiDoc,
		"index.html":    FormatHTML,
		"pkg.json":      FormatJSON,
		"conf.yaml":     FormatYAML,
		"conf.yml":      FormatYAML,
		"Cargo.toml":    FormatTOML,
		"app.ini":       FormatIni,
		"app.properties": FormatProperties,
		".env":          FormatEnv,
		"data.xml":      FormatXML,
		"plain.txt":     FormatPlainText,
		"no_extension":  FormatPlainText,
	}
	for path, want := range cases {
		require.Equal(t, want, DetectFormat(path), path)
	}
}

func TestClassifyContentType_CodeVsConfigVsDoc(t *testing.T) {
	ct := ClassifyContentType("main.py")
	require.Equal(t, ContentKindCode, ct.Kind)

	ct = ClassifyContentType("config.yaml")
	require.Equal(t, ContentKindConfiguration, ct.Kind)

	ct = ClassifyContentType("README.md")
	require.Equal(t, ContentKindDocumentation, ct.Kind)
}

func TestValidateMIME(t *testing.T) {
	require.NoError(t, ValidateMIME("text/plain", []byte("hello")))
	require.Error(t, ValidateMIME("text/plain", []byte{0xff, 0xfe}))

	require.NoError(t, ValidateMIME("application/json", []byte(`{"a":1}`)))
	require.Error(t, ValidateMIME("application/json", []byte(`not json`)))

	require.NoError(t, ValidateMIME("application/octet-stream", []byte("aGVsbG8=")))
	require.Error(t, ValidateMIME("application/octet-stream", []byte("not base64!!")))
}

func TestIndexFile_DocumentationAndStats(t *testing.T) {
	idx := New(0)
	idx.IndexFile("README.md", []byte("# Title\n\nSome body text.\n"), nil)

	stats := idx.Stats()
	require.Equal(t, 1, stats[ContentKindDocumentation].FileCount)

	nodes := idx.GetFile("README.md")
	require.Len(t, nodes, 1)
	require.Equal(t, ContentKindDocumentation, nodes[0].Type.Kind)
}

func TestIndexFile_ReindexReplacesPriorNodes(t *testing.T) {
	idx := New(0)
	idx.IndexFile("a.md", []byte("first"), nil)
	idx.IndexFile("a.md", []byte("second version"), nil)

	nodes := idx.GetFile("a.md")
	require.Len(t, nodes, 1)
	require.Equal(t, "second version", nodes[0].Chunks[0].Text)
}

func TestRemoveFile(t *testing.T) {
	idx := New(0)
	idx.IndexFile("a.md", []byte("content"), nil)
	idx.RemoveFile("a.md")
	require.Empty(t, idx.GetFile("a.md"))
	require.Equal(t, 0, idx.Stats()[ContentKindDocumentation].FileCount)
}

func TestSearch_LiteralMatchScoresByFrequency(t *testing.T) {
	idx := New(0)
	idx.IndexFile("a.md", []byte("alpha alpha beta"), nil)
	idx.IndexFile("b.md", []byte("alpha"), nil)

	results, err := idx.Search(SearchQuery{Text: "alpha", Mode: MatchLiteral, MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "a.md", results[0].Path)
}

func TestSearch_RegexMode(t *testing.T) {
	idx := New(0)
	idx.IndexFile("a.py", []byte("def foo():\n    pass\ndef bar():\n    pass\n"), nil)

	results, err := idx.Search(SearchQuery{Text: `def \w+\(`, Mode: MatchRegex, MaxResults: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
}

func TestSearch_IncludeExcludeGlobs(t *testing.T) {
	idx := New(0)
	idx.IndexFile("docs/a.md", []byte("needle"), nil)
	idx.IndexFile("vendor/b.md", []byte("needle"), nil)

	results, err := idx.Search(SearchQuery{
		Text:         "needle",
		Mode:         MatchLiteral,
		IncludeGlobs: []string{"docs/**"},
		MaxResults:   10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "docs/a.md", results[0].Path)
}

func TestRecencyWeight_NewerBeatsOlderAtEqualFrequency(t *testing.T) {
	idx := New(0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	idx.nowFn = func() time.Time { return tick }

	idx.IndexFile("old.md", []byte("needle"), nil)
	tick = base.Add(72 * time.Hour)
	idx.IndexFile("new.md", []byte("needle"), nil)

	results, err := idx.Search(SearchQuery{Text: "needle", Mode: MatchLiteral, MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "new.md", results[0].Path)
}
